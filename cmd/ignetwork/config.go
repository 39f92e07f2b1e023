package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ignetwork/pkg/alias"
	"ignetwork/pkg/config"
	"ignetwork/pkg/storage"
	"ignetwork/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage ignetwork configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (IGNETWORK_*)
  - .env file
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with the default values",
	Long: `Create a configuration file holding every option at its default value.

The file will be created in the current directory as '.ignetwork.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging environment variables,
the configuration file and default values.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and input files",
	Long: `Validate the configuration and check that its input files can be read.

This command checks:
  - YAML syntax
  - Value types and ranges
  - The tracked profiles list and the display names file
  - The mention exports manifest, when present`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".ignetwork.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Point the input section at your posts table and tracked profiles")
	fmt.Println("2. Run 'ignetwork config validate' to check the configuration")
	fmt.Println("3. Build the network with 'ignetwork run'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (IGNETWORK_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in standard locations)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	warnings := []string{}
	problems := []string{}

	entities, err := storage.ReadEntities(cfg.Input.EntitiesFile)
	if err != nil {
		problems = append(problems, err.Error())
	} else if _, err := alias.Load(cfg.Input.NamesFile, entities, cfg.Input.NamesRequired); err != nil {
		problems = append(problems, err.Error())
	}

	if _, err := os.Stat(cfg.Input.PostsFile); err != nil {
		problems = append(problems, fmt.Sprintf("Cannot read posts table: %v", err))
	}

	if manifest := cfg.Input.ManifestPath(); manifest != "" {
		if _, err := os.Stat(manifest); err == nil {
			if _, err := storage.LoadManifest(manifest); err != nil {
				problems = append(problems, err.Error())
			}
		} else if cfg.Input.MentionsDir != "" {
			if _, err := os.Stat(cfg.Input.MentionsDir); err == nil {
				warnings = append(warnings, "No manifest found; anchors will be inferred from mention export file names")
			}
		}
	}

	for _, out := range []string{cfg.Output.RawEdgesFile, cfg.Output.ConsolidatedEdgesFile, cfg.Output.GraphFile, cfg.Logging.File} {
		if out == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create output directory: %v", err))
		}
	}

	if cfg.Community.Seed == 0 && cfg.Community.Algorithm == "louvain" {
		warnings = append(warnings, "Community seed is 0; communities will differ between runs")
	}

	for _, w := range warnings {
		ui.PrintWarning("Warning", w)
	}
	for _, p := range problems {
		ui.PrintError("Error", p)
	}

	if len(problems) > 0 {
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration is valid")
}
