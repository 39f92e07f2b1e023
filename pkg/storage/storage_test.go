package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	igerrors "ignetwork/pkg/errors"
	"ignetwork/pkg/logger"
	"ignetwork/pkg/models"
)

const postsCSV = `timestamp_registro,username,followers_count,posts_count_total,following_count,post_id,post_created_at_str,post_shortcode,post_url,likes_count,comments_count,post_caption,media_type,play_count,usertags,post_transcript
2025-10-01 10:00:00,ana,100,10,5,1,2025-09-30 18:30:00,abc,https://www.instagram.com/p/abc/,9,0,"hola @bob, ""saludos""",GraphImage,0,"carol, dave",
2025-10-01 10:00:00,bob,200,20,6,2,,def,https://www.instagram.com/p/def/,N/A,,sin menciones,GraphVideo,50,N/A,transcripción
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadPosts(t *testing.T) {
	path := writeFile(t, t.TempDir(), "posts.csv", postsCSV)

	posts, err := ReadPosts(path)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	first := posts[0]
	assert.Equal(t, "ana", first.Author)
	assert.Equal(t, `hola @bob, "saludos"`, first.Caption)
	assert.Equal(t, []string{"carol", "dave"}, first.Tags)
	assert.Equal(t, 9.0, first.Likes)
	assert.Equal(t, 0.0, first.Comments)
	assert.Equal(t, time.Date(2025, 9, 30, 18, 30, 0, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, "abc", first.Field(models.ColumnShortcode))
	assert.Equal(t, "carol, dave", first.Field(models.ColumnUsertags))

	second := posts[1]
	assert.Zero(t, second.Likes)
	assert.Zero(t, second.Comments)
	assert.Nil(t, second.Tags)
	assert.True(t, second.CreatedAt.IsZero())
	assert.Equal(t, "transcripción", second.Field(models.ColumnTranscript))
}

func TestReadPostsErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		wantType igerrors.ErrorType
		wantMsg  string
	}{
		{
			name:     "missing required column",
			content:  "username,likes_count\nana,1\n",
			wantType: igerrors.ErrorTypeParse,
			wantMsg:  "comments_count",
		},
		{
			name:     "bad count",
			content:  "username,likes_count,comments_count\nana,many,0\n",
			wantType: igerrors.ErrorTypeParse,
			wantMsg:  "line 2",
		},
		{
			name:     "empty file",
			content:  "",
			wantType: igerrors.ErrorTypeParse,
			wantMsg:  "missing header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".csv", tt.content)
			_, err := ReadPosts(path)
			require.Error(t, err)
			assert.Equal(t, tt.wantType, igerrors.TypeOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	t.Run("missing file is a config error", func(t *testing.T) {
		_, err := ReadPosts(filepath.Join(dir, "absent.csv"))
		require.Error(t, err)
		assert.Equal(t, igerrors.ErrorTypeConfig, igerrors.TypeOf(err))
		assert.True(t, igerrors.IsFatal(err))
	})
}

func TestReadPostsHeaderWithBOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bom.csv", "\ufeffusername,likes_count,comments_count\nana,1,2\n")
	posts, err := ReadPosts(path)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "ana", posts[0].Author)
}

func TestReadEntities(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "perfiles.txt", "\ufeffana\n\n  @bob  \nana\ncarol\n")

	handles, err := ReadEntities(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "bob", "carol"}, handles)

	empty := writeFile(t, dir, "empty.txt", "\n \n")
	_, err = ReadEntities(empty)
	assert.Equal(t, igerrors.ErrorTypeConfig, igerrors.TypeOf(err))

	_, err = ReadEntities(filepath.Join(dir, "absent.txt"))
	assert.Equal(t, igerrors.ErrorTypeConfig, igerrors.TypeOf(err))
}

func TestEdgesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "edges.csv")
	edges := []models.Edge{
		{Source: "A", Target: "B", Weight: 1.9},
		{Source: "A", Target: "C,D", Weight: 15.456},
	}

	require.NoError(t, WriteEdges(path, edges))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "source,target,weight\nA,B,1.90\nA,\"C,D\",15.46\n", string(data))

	got, err := ReadEdges(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Edge{
		{Source: "A", Target: "B", Weight: 1.9},
		{Source: "A", Target: "C,D", Weight: 15.46},
	}, got)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStoredEdgesMatchReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	edges := []models.Edge{
		{Source: "A", Target: "B", Weight: 49.996},
		{Source: "B", Target: "A", Weight: 1.0 / 3},
	}
	require.NoError(t, WriteEdges(path, edges))

	got, err := ReadEdges(path)
	require.NoError(t, err)
	assert.Equal(t, got, StoredEdges(edges))
	assert.Equal(t, 49.996, edges[0].Weight)
}

func TestReadEdgesMalformed(t *testing.T) {
	dir := t.TempDir()

	bad := writeFile(t, dir, "bad.csv", "source,target,weight\nA,B,heavy\n")
	_, err := ReadEdges(bad)
	assert.Equal(t, igerrors.ErrorTypeParse, igerrors.TypeOf(err))

	noWeight := writeFile(t, dir, "noweight.csv", "source,target\nA,B\n")
	_, err = ReadEdges(noWeight)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"weight"`)
}

func TestWriteCommunities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "communities.csv")
	require.NoError(t, WriteCommunities(path, []CommunityRow{
		{Handle: "ana", Label: "Ana María", Community: 1, Relevance: 12.5, PageRank: 0.25},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "handle,label,community,relevance,pagerank\nana,Ana María,1,12.50,0.250000\n", string(data))
}

func TestWriteAtomicFailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.html")

	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("render failed")
	})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "menciones/manifest.yaml", `
- file: menciones_jara.csv
  anchor: jara_oficial
- file: /abs/otros.csv
  anchor: "@kast"
`)

	sources, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []MentionSource{
		{File: filepath.Join(dir, "menciones", "menciones_jara.csv"), Anchor: "jara_oficial"},
		{File: "/abs/otros.csv", Anchor: "@kast"},
	}, sources)

	incomplete := writeFile(t, dir, "incomplete.yaml", "- file: a.csv\n")
	_, err = LoadManifest(incomplete)
	assert.Equal(t, igerrors.ErrorTypeConfig, igerrors.TypeOf(err))

	malformed := writeFile(t, dir, "malformed.yaml", "file: [\n")
	_, err = LoadManifest(malformed)
	assert.Equal(t, igerrors.ErrorTypeParse, igerrors.TypeOf(err))
}

func TestAnchorFromFileName(t *testing.T) {
	tests := map[string]string{
		"menciones/menciones_de_jara.csv": "jara",
		"kast.csv":                        "kast",
		"/tmp/x_y_z_matthei.csv":          "matthei",
	}
	for in, want := range tests {
		assert.Equal(t, want, AnchorFromFileName(in), in)
	}
}

func TestMentionSources(t *testing.T) {
	log := logger.NewTestLogger()

	t.Run("manifest wins", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "menciones_de_ana.csv", "username\n")
		manifest := writeFile(t, dir, "manifest.yaml", "- file: menciones_de_ana.csv\n  anchor: ana_real\n")

		sources, err := MentionSources(dir, manifest, log)
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "ana_real", sources[0].Anchor)
		assert.False(t, sources[0].Legacy)
	})

	t.Run("legacy discovery", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "m_bob.csv", "username\n")
		writeFile(t, dir, "m_ana.csv", "username\n")
		writeFile(t, dir, "notes.txt", "ignored")

		sources, err := MentionSources(dir, filepath.Join(dir, "manifest.yaml"), log)
		require.NoError(t, err)
		require.Len(t, sources, 2)
		assert.Equal(t, "ana", sources[0].Anchor)
		assert.Equal(t, "bob", sources[1].Anchor)
		assert.True(t, sources[0].Legacy)
		assert.NotEmpty(t, log.GetMessagesByLevel("WARN"))
	})

	t.Run("missing directory", func(t *testing.T) {
		sources, err := MentionSources(filepath.Join(t.TempDir(), "absent"), "", log)
		require.NoError(t, err)
		assert.Empty(t, sources)
	})
}
