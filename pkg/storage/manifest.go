package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"ignetwork/pkg/errors"
	"ignetwork/pkg/logger"
)

// MentionSource is one externally collected post file and the handle it
// was collected for
type MentionSource struct {
	File   string `yaml:"file"`
	Anchor string `yaml:"anchor"`
	// Legacy is set when the anchor was inferred from the file name
	Legacy bool `yaml:"-"`
}

// LoadManifest reads a YAML list of {file, anchor} entries. Relative file
// paths are resolved against the manifest's directory.
func LoadManifest(path string) ([]MentionSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config(path, "cannot read mentions manifest", err)
	}

	var sources []MentionSource
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, errors.Parse(path, "mentions manifest must be a list of {file, anchor}", err)
	}

	base := filepath.Dir(path)
	for i := range sources {
		s := &sources[i]
		s.File = strings.TrimSpace(s.File)
		s.Anchor = strings.TrimSpace(s.Anchor)
		if s.File == "" || s.Anchor == "" {
			return nil, errors.Config(path, "manifest entries need both file and anchor", nil)
		}
		if !filepath.IsAbs(s.File) {
			s.File = filepath.Join(base, s.File)
		}
	}
	return sources, nil
}

// DiscoverMentionSources lists *.csv files in dir, inferring each anchor
// from the last underscore-separated token of the file name.
func DiscoverMentionSources(dir string) ([]MentionSource, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, errors.Config(dir, "invalid mentions directory", err)
	}
	sort.Strings(matches)

	sources := make([]MentionSource, 0, len(matches))
	for _, file := range matches {
		sources = append(sources, MentionSource{
			File:   file,
			Anchor: AnchorFromFileName(file),
			Legacy: true,
		})
	}
	return sources, nil
}

// AnchorFromFileName returns the trailing _token of a mention file name
func AnchorFromFileName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	if i := strings.LastIndex(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// MentionSources returns the manifest entries when manifestPath exists,
// otherwise the files discovered in dir. A missing dir yields no sources.
func MentionSources(dir, manifestPath string, log logger.Logger) ([]MentionSource, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if manifestPath != "" {
		if _, err := os.Stat(manifestPath); err == nil {
			return LoadManifest(manifestPath)
		}
	}

	if dir == "" {
		return nil, nil
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		log.WithField("dir", dir).Info("No mentions directory, skipping co-mention scan")
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeIO, dir, "cannot stat mentions directory", err)
	}
	if !info.IsDir() {
		return nil, errors.Config(dir, "mentions path is not a directory", nil)
	}

	sources, err := DiscoverMentionSources(dir)
	if err != nil {
		return nil, err
	}
	if len(sources) > 0 {
		log.WithFields(map[string]interface{}{
			"dir":   dir,
			"files": len(sources),
		}).Warn("No mentions manifest, inferring anchors from file names")
	}
	return sources, nil
}
