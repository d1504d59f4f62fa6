package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"voyager/infrastructure/di"
)

var convertFile string

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a flow document into an execution plan without opening the editor",
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFile, "file", "f", "", "flow document to convert (default: configured document path)")
}

func runConvert(cmd *cobra.Command, args []string) error {
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

	path := convertFile
	if path == "" {
		path = cfg.DocumentPath
	}

	if _, err := container.Editor.Import(path); err != nil {
		return err
	}

	plan, err := container.PlannerSvc.ConvertFlow(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), plan)
	return nil
}
