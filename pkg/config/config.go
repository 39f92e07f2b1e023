package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of the extraction window bounds
const DateLayout = "2006-01-02"

// Config holds all configuration options for the network pipeline
type Config struct {
	// Input files produced by the scraping collaborators
	Input InputConfig `yaml:"input" json:"input"`

	// Output artifact paths
	Output OutputConfig `yaml:"output" json:"output"`

	// Mention extraction settings
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction"`

	// Community detection settings
	Community CommunityConfig `yaml:"community" json:"community"`

	// Visual encoding bounds and thresholds
	Visual VisualConfig `yaml:"visual" json:"visual"`

	// Force layout parameters of the rendered graph
	Physics PhysicsConfig `yaml:"physics" json:"physics"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InputConfig holds the input file locations
type InputConfig struct {
	PostsFile        string `yaml:"posts_file" json:"posts_file" validate:"required"`
	EntitiesFile     string `yaml:"entities_file" json:"entities_file" validate:"required"`
	NamesFile        string `yaml:"names_file" json:"names_file"`
	// NamesRequired makes a missing NamesFile fatal. Leave NamesFile empty
	// to run without display names.
	NamesRequired    bool   `yaml:"names_required" json:"names_required"`
	MentionsDir      string `yaml:"mentions_dir" json:"mentions_dir"`
	MentionsManifest string `yaml:"mentions_manifest" json:"mentions_manifest"`
}

// OutputConfig holds the output file locations
type OutputConfig struct {
	RawEdgesFile          string `yaml:"raw_edges_file" json:"raw_edges_file" validate:"required"`
	ConsolidatedEdgesFile string `yaml:"consolidated_edges_file" json:"consolidated_edges_file" validate:"required"`
	GraphFile             string `yaml:"graph_file" json:"graph_file" validate:"required"`
	CommunitiesFile       string `yaml:"communities_file" json:"communities_file"`
}

// ExtractionConfig controls how posts are scanned for mentions
type ExtractionConfig struct {
	// Mode is "basic" (caption and tags of tracked authors) or "extended"
	Mode               string        `yaml:"mode" json:"mode" validate:"oneof=basic extended"`
	ScanFields         []string      `yaml:"scan_fields" json:"scan_fields"`
	OnlyTrackedAuthors bool          `yaml:"only_tracked_authors" json:"only_tracked_authors"`
	Since              string        `yaml:"since" json:"since"`
	Until              string        `yaml:"until" json:"until"`
	Workers            int           `yaml:"workers" json:"workers" validate:"gte=1,lte=32"`
	MatchTimeout       time.Duration `yaml:"match_timeout" json:"match_timeout" validate:"gt=0"`
}

// CommunityConfig controls community detection
type CommunityConfig struct {
	Algorithm  string  `yaml:"algorithm" json:"algorithm" validate:"oneof=louvain components singleton"`
	Resolution float64 `yaml:"resolution" json:"resolution" validate:"gt=0"`
	// Seed fixes the random source of the detector. Zero picks a fresh seed per run.
	Seed              uint64  `yaml:"seed" json:"seed"`
	PageRankDamping   float64 `yaml:"pagerank_damping" json:"pagerank_damping" validate:"gt=0,lt=1"`
	PageRankTolerance float64 `yaml:"pagerank_tolerance" json:"pagerank_tolerance" validate:"gt=0"`
}

// VisualConfig holds the visual mapping bounds
type VisualConfig struct {
	MinWeight         float64 `yaml:"min_weight" json:"min_weight" validate:"gte=0"`
	MinNodeSize       float64 `yaml:"min_node_size" json:"min_node_size" validate:"gt=0"`
	MaxNodeSize       float64 `yaml:"max_node_size" json:"max_node_size" validate:"gtfield=MinNodeSize"`
	MinEdgeWidth      float64 `yaml:"min_edge_width" json:"min_edge_width" validate:"gt=0"`
	MaxEdgeWidth      float64 `yaml:"max_edge_width" json:"max_edge_width" validate:"gtfield=MinEdgeWidth"`
	VertexPolicy      string  `yaml:"vertex_policy" json:"vertex_policy" validate:"oneof=surviving all"`
	CandidateFontSize int     `yaml:"candidate_font_size" json:"candidate_font_size" validate:"gt=0"`
	FontSize          int     `yaml:"font_size" json:"font_size" validate:"gt=0"`
	Saturation        int     `yaml:"saturation" json:"saturation" validate:"gte=0,lte=100"`
	Lightness         int     `yaml:"lightness" json:"lightness" validate:"gte=0,lte=100"`
	Title             string  `yaml:"title" json:"title"`
	Height            string  `yaml:"height" json:"height"`
	Background        string  `yaml:"background" json:"background"`
	FontColor         string  `yaml:"font_color" json:"font_color"`
	EdgeColor         string  `yaml:"edge_color" json:"edge_color"`
}

// PhysicsConfig holds the barnes-hut parameters of the interactive layout
type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity" json:"gravity" validate:"lte=0"`
	CentralGravity float64 `yaml:"central_gravity" json:"central_gravity" validate:"gte=0"`
	SpringLength   float64 `yaml:"spring_length" json:"spring_length" validate:"gt=0"`
	SpringConstant float64 `yaml:"spring_constant" json:"spring_constant" validate:"gt=0"`
	Damping        float64 `yaml:"damping" json:"damping" validate:"gte=0,lte=1"`
	AvoidOverlap   float64 `yaml:"avoid_overlap" json:"avoid_overlap" validate:"gte=0,lte=1"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
	NoColor    bool   `yaml:"no_color" json:"no_color"`
}

// DefaultConfig returns a Config instance with the stock defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			PostsFile:     "base_de_datos_instagram.csv",
			EntitiesFile:  "perfiles_instagram.txt",
			NamesFile:     "reemplazo_nombres_perfiles_visualizacion.json",
			NamesRequired: true,
			MentionsDir:   "menciones",
		},
		Output: OutputConfig{
			RawEdgesFile:          "network_data_raw.csv",
			ConsolidatedEdgesFile: "network_data_consolidated.csv",
			GraphFile:             "mapa_de_red_final.html",
		},
		Extraction: ExtractionConfig{
			Mode:         "extended",
			Workers:      4,
			MatchTimeout: 2 * time.Second,
		},
		Community: CommunityConfig{
			Algorithm:         "louvain",
			Resolution:        1.0,
			PageRankDamping:   0.85,
			PageRankTolerance: 1e-6,
		},
		Visual: VisualConfig{
			MinWeight:         50.0,
			MinNodeSize:       10,
			MaxNodeSize:       50,
			MinEdgeWidth:      1,
			MaxEdgeWidth:      10,
			VertexPolicy:      "surviving",
			CandidateFontSize: 35,
			FontSize:          15,
			Saturation:        70,
			Lightness:         50,
			Title:             "Mention network",
			Height:            "900px",
			Background:        "#222222",
			FontColor:         "white",
			EdgeColor:         "#848484",
		},
		Physics: PhysicsConfig{
			Gravity:        -120000,
			CentralGravity: 0.1,
			SpringLength:   500,
			SpringConstant: 0.01,
			Damping:        0.09,
			AvoidOverlap:   0.2,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	// Inputs
	if v := os.Getenv("IGNETWORK_POSTS_FILE"); v != "" {
		c.Input.PostsFile = v
	}
	if v := os.Getenv("IGNETWORK_ENTITIES_FILE"); v != "" {
		c.Input.EntitiesFile = v
	}
	if v := os.Getenv("IGNETWORK_NAMES_FILE"); v != "" {
		c.Input.NamesFile = v
	}
	if v := os.Getenv("IGNETWORK_NAMES_REQUIRED"); v != "" {
		required, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("IGNETWORK_NAMES_REQUIRED: %w", err))
		} else {
			c.Input.NamesRequired = required
		}
	}
	if v := os.Getenv("IGNETWORK_MENTIONS_DIR"); v != "" {
		c.Input.MentionsDir = v
	}

	// Outputs
	if v := os.Getenv("IGNETWORK_GRAPH_FILE"); v != "" {
		c.Output.GraphFile = v
	}

	if v := os.Getenv("IGNETWORK_MIN_WEIGHT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("IGNETWORK_MIN_WEIGHT: %w", err))
		} else {
			c.Visual.MinWeight = f
		}
	}
	if v := os.Getenv("IGNETWORK_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("IGNETWORK_SEED: %w", err))
		} else {
			c.Community.Seed = seed
		}
	}
	if v := os.Getenv("IGNETWORK_WORKERS"); v != "" {
		var val int
		fmt.Sscanf(v, "%d", &val)
		if val > 0 {
			c.Extraction.Workers = val
		}
	}
	if v := os.Getenv("IGNETWORK_ALGORITHM"); v != "" {
		c.Community.Algorithm = strings.ToLower(v)
	}
	if v := os.Getenv("IGNETWORK_VERTEX_POLICY"); v != "" {
		c.Visual.VertexPolicy = strings.ToLower(v)
	}

	// Logging
	if v := os.Getenv("IGNETWORK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("IGNETWORK_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("NO_COLOR"); v != "" {
		c.Logging.NoColor = true
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".ignetwork.yaml",
		".ignetwork.yml",
		filepath.Join(home, ".config", "ignetwork", "config.yaml"),
		filepath.Join(home, ".config", "ignetwork", "config.yml"),
		filepath.Join(home, ".ignetwork.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q%s", fe.Namespace(), fe.Tag(), paramSuffix(fe.Param())))
			}
		} else {
			errs = append(errs, err)
		}
	}

	if _, _, err := c.Extraction.Window(); err != nil {
		errs = append(errs, err)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return " (" + param + ")"
}

// Window parses the optional since/until bounds. Zero times mean unbounded.
func (e ExtractionConfig) Window() (since, until time.Time, err error) {
	if e.Since != "" {
		if since, err = time.Parse(DateLayout, e.Since); err != nil {
			return since, until, fmt.Errorf("invalid extraction.since %q: %w", e.Since, err)
		}
	}
	if e.Until != "" {
		if until, err = time.Parse(DateLayout, e.Until); err != nil {
			return since, until, fmt.Errorf("invalid extraction.until %q: %w", e.Until, err)
		}
		// inclusive of the whole day
		until = until.Add(24*time.Hour - time.Nanosecond)
	}
	if !since.IsZero() && !until.IsZero() && until.Before(since) {
		return since, until, errors.New("extraction.until is before extraction.since")
	}
	return since, until, nil
}

// ManifestPath returns the mentions manifest location
func (i InputConfig) ManifestPath() string {
	if i.MentionsManifest != "" {
		return i.MentionsManifest
	}
	if i.MentionsDir == "" {
		return ""
	}
	return filepath.Join(i.MentionsDir, "manifest.yaml")
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["posts"].(string); ok && v != "" {
		c.Input.PostsFile = v
	}
	if v, ok := flags["entities"].(string); ok && v != "" {
		c.Input.EntitiesFile = v
	}
	if v, ok := flags["names"].(string); ok && v != "" {
		c.Input.NamesFile = v
	}
	if v, ok := flags["mentions-dir"].(string); ok && v != "" {
		c.Input.MentionsDir = v
	}
	if v, ok := flags["manifest"].(string); ok && v != "" {
		c.Input.MentionsManifest = v
	}
	if v, ok := flags["raw-out"].(string); ok && v != "" {
		c.Output.RawEdgesFile = v
	}
	if v, ok := flags["consolidated-out"].(string); ok && v != "" {
		c.Output.ConsolidatedEdgesFile = v
	}
	if v, ok := flags["graph-out"].(string); ok && v != "" {
		c.Output.GraphFile = v
	}
	if v, ok := flags["communities-out"].(string); ok && v != "" {
		c.Output.CommunitiesFile = v
	}
	if v, ok := flags["mode"].(string); ok && v != "" {
		c.Extraction.Mode = v
	}
	if v, ok := flags["since"].(string); ok && v != "" {
		c.Extraction.Since = v
	}
	if v, ok := flags["until"].(string); ok && v != "" {
		c.Extraction.Until = v
	}
	if v, ok := flags["workers"].(int); ok && v > 0 {
		c.Extraction.Workers = v
	}
	if v, ok := flags["algorithm"].(string); ok && v != "" {
		c.Community.Algorithm = v
	}
	if v, ok := flags["seed"].(uint64); ok {
		c.Community.Seed = v
	}
	if v, ok := flags["min-weight"].(float64); ok {
		c.Visual.MinWeight = v
	}
	if v, ok := flags["vertex-policy"].(string); ok && v != "" {
		c.Visual.VertexPolicy = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["no-color"].(bool); ok && v {
		c.Logging.NoColor = true
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".ignetwork.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
