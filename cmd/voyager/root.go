package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voyager/infrastructure/config"
	"voyager/infrastructure/di"
	"voyager/interfaces/ui"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:     "voyager",
	Short:   "Node-graph editor for SAP GUI automation flows",
	Long:    "Voyager opens a desktop editor where automation flows are composed as a node graph, exported as JSON, and converted into execution plans.",
	Version: version,
	RunE:    runShell,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(envCmd)
}

// loadConfig builds the effective configuration: environment (with
// .env folded in), then the persisted settings file filling blanks.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := config.LoadSettingsFile(cfg, config.SettingsPath()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, err := di.InitializeContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Logger.Sync()
	defer container.Watcher.Close()

	// Load the default document when one exists; a fresh workspace
	// starts empty.
	if _, err := os.Stat(cfg.DocumentPath); err == nil {
		if _, err := container.Editor.Import(cfg.DocumentPath); err != nil {
			container.Logger.Warn("startup document not loaded", zap.Error(err))
		}
	}

	planPane := ui.NewPlanPane()
	container.PlannerSvc.SetSink(planPane)

	shell := ui.NewShell(
		cfg,
		container.Editor,
		container.PlannerSvc,
		planPane,
		container.ConsoleSink,
		container.Watcher,
		container.Logger,
	)
	shell.Run()

	return nil
}
