// Voyager is a desktop editor for composing SAP GUI automation flows
// as a node graph, exporting them as JSON, and converting them into
// step-by-step execution plans through an LLM.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
