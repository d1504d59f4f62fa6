package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"voyager/infrastructure/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the effective settings with secrets masked",
	RunE:  runEnv,
}

func runEnv(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := color.New(color.FgCyan).SprintFunc()
	printRow := func(name, value string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key(name), value)
	}

	printRow("ENVIRONMENT", cfg.Environment)
	printRow("LOG_LEVEL", cfg.LogLevel)
	printRow("LOG_FILE", cfg.LogFile)
	printRow("DOCUMENT_PATH", cfg.DocumentPath)
	printRow("SAP_SERVER", cfg.SAPServer)
	printRow("SAP_USER", cfg.SAPUser)
	printRow("SAP_PASSWORD", mask(cfg.SAPPassword))
	printRow("LANGCHAIN_PROJECT", cfg.LangChainProject)
	printRow("LANGCHAIN_ENDPOINT", cfg.LangChainEndpoint)
	printRow("LANGCHAIN_API_KEY", mask(cfg.LangChainAPIKey))
	printRow("RECURSION_LIMIT", strconv.Itoa(cfg.RecursionLimit))
	printRow("PROVIDER", string(cfg.Provider))

	switch cfg.Provider {
	case config.ProviderAzureOpenAI:
		printRow("openai_api_version", cfg.Azure.APIVersion)
		printRow("openai_api_key", mask(cfg.Azure.APIKey))
		printRow("azure_endpoint", cfg.Azure.Endpoint)
		printRow("deployment_name", cfg.Azure.DeploymentName)
	case config.ProviderGroq:
		printRow("GROQ_MODEL", cfg.Groq.Model)
		printRow("GROQ_API_KEY", mask(cfg.Groq.APIKey))
	case config.ProviderAnthropic:
		printRow("ANTHROPIC_MODEL", cfg.Anthropic.Model)
		printRow("ANTHROPIC_KEY", mask(cfg.Anthropic.Key))
	}

	return nil
}

// mask hides a secret, keeping only enough to confirm which one is set
func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-2:]
}
