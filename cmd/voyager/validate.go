package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"voyager/infrastructure/persistence/jsondoc"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a flow document for schema problems and dangling edges",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.DocumentPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := jsondoc.Decode(data)
	if err != nil {
		color.Red("%s: %v", path, err)
		os.Exit(1)
	}

	problems := jsondoc.Lint(doc)
	if len(problems) == 0 {
		color.Green("%s: ok (%d nodes, %d edges)", path, len(doc.Nodes), len(doc.Edges))
		return nil
	}

	color.Red("%s: %d problem(s)", path, len(problems))
	for _, problem := range problems {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", problem)
	}
	os.Exit(1)
	return nil
}
