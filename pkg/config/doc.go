// Package config loads the pipeline configuration.
//
// Sources, highest precedence first:
//
//	command line flags
//	IGNETWORK_* environment variables (also read from .env files)
//	YAML config file (.ignetwork.yaml, ~/.config/ignetwork/config.yaml, ...)
//	DefaultConfig
//
// Usage:
//
//	cfg, err := config.Load("", map[string]interface{}{
//	    "min-weight": 25.0,
//	    "seed":       uint64(7),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	since, until, _ := cfg.Extraction.Window()
package config
