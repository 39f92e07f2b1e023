package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"ignetwork/pkg/errors"
	"ignetwork/pkg/models"
)

// CreatedAtLayout is the timestamp format of post_created_at_str
const CreatedAtLayout = "2006-01-02 15:04:05"

var requiredPostColumns = []string{
	models.ColumnUsername,
	models.ColumnLikes,
	models.ColumnComments,
}

// ReadPosts loads a post dataset. username, likes_count and comments_count
// are required; every column is kept in Post.Fields.
func ReadPosts(path string) ([]models.Post, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	posts, err := DecodePosts(f)
	if err != nil {
		return nil, errors.Parse(path, "malformed post dataset", err)
	}
	return posts, nil
}

// DecodePosts reads posts from CSV with a header row
func DecodePosts(r io.Reader) ([]models.Post, error) {
	cr := newCSVReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, err
	}
	columns := indexHeader(header)
	for _, name := range requiredPostColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var posts []models.Post
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		fields := make(map[string]string, len(header))
		for name, i := range columns {
			if i < len(record) {
				fields[name] = record[i]
			}
		}

		post, err := postFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func postFromFields(fields map[string]string) (models.Post, error) {
	likes, err := parseCount(fields[models.ColumnLikes])
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", models.ColumnLikes, err)
	}
	comments, err := parseCount(fields[models.ColumnComments])
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", models.ColumnComments, err)
	}

	post := models.Post{
		Author:    strings.TrimSpace(fields[models.ColumnUsername]),
		Caption:   fields[models.ColumnCaption],
		Tags:      parseUsertags(fields[models.ColumnUsertags]),
		Likes:     likes,
		Comments:  comments,
		MediaType: fields[models.ColumnMediaType],
		Fields:    fields,
	}
	// undated rows stay zero and fall outside any time window
	if ts, err := time.Parse(CreatedAtLayout, strings.TrimSpace(fields[models.ColumnCreatedAt])); err == nil {
		post.CreatedAt = ts
	}
	return post, nil
}

// parseCount reads an engagement count. Blank and N/A cells count as zero.
func parseCount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "n/a", "nan":
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseUsertags(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

func indexHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

// openInput opens a required input file. A missing file is a config error.
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Config(path, "input file not found", err)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeIO, path, "cannot open input file", err)
	}
	return f, nil
}
