package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultRecursionLimit is the planner recursion limit used when
// neither the environment nor the settings file sets one. The settings
// file may only override the limit while it still holds this value.
const DefaultRecursionLimit = 50

// Provider identifies which LLM backend converts flows into plans
type Provider string

const (
	ProviderNone        Provider = ""
	ProviderAzureOpenAI Provider = "azure-openai"
	ProviderGroq        Provider = "groq"
	ProviderAnthropic   Provider = "anthropic"
)

// Providers lists the selectable providers in dialog order
func Providers() []Provider {
	return []Provider{ProviderAzureOpenAI, ProviderGroq, ProviderAnthropic}
}

// AzureSettings is the Azure OpenAI field set. Keys live in the
// environment only and never reach the settings file.
type AzureSettings struct {
	APIVersion     string `toml:"openai_api_version"`
	APIKey         string `toml:"-"`
	Endpoint       string `toml:"azure_endpoint"`
	DeploymentName string `toml:"deployment_name"`
}

// GroqSettings is the GROQ field set
type GroqSettings struct {
	Model  string `toml:"groq_model"`
	APIKey string `toml:"-"`
}

// AnthropicSettings is the Anthropic field set
type AnthropicSettings struct {
	Model string `toml:"anthropic_model"`
	Key   string `toml:"-"`
}

// Config holds all application configuration. SAP and LangChain values
// are pass-through for the automation side; the graph editor itself
// depends on none of them.
type Config struct {
	Environment  string `toml:"-"`
	LogLevel     string `toml:"-"`
	LogFile      string `toml:"-"`
	DocumentPath string `toml:"document_path"`

	// SAP connection
	SAPServer   string `toml:"sap_server"`
	SAPUser     string `toml:"sap_user"`
	SAPPassword string `toml:"-"`

	// LangChain tracing
	LangChainProject  string `toml:"langchain_project"`
	LangChainEndpoint string `toml:"langchain_endpoint"`
	LangChainAPIKey   string `toml:"-"`

	// Planner
	RecursionLimit int      `toml:"recursion_limit"`
	Provider       Provider `toml:"provider"`

	Azure     AzureSettings     `toml:"azure"`
	Groq      GroqSettings      `toml:"groq"`
	Anthropic AnthropicSettings `toml:"anthropic"`
}

// LoadConfig loads configuration from the environment. A .env file in
// the working directory is folded in first when present; real
// environment variables win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", "app.log"),
		DocumentPath: getEnv("DOCUMENT_PATH", "voyager.json"),

		SAPServer:   getEnv("SAP_SERVER", ""),
		SAPUser:     getEnv("SAP_USER", ""),
		SAPPassword: getEnv("SAP_PASSWORD", ""),

		LangChainProject:  getEnv("LANGCHAIN_PROJECT", ""),
		LangChainEndpoint: getEnv("LANGCHAIN_ENDPOINT", ""),
		LangChainAPIKey:   getEnv("LANGCHAIN_API_KEY", ""),

		RecursionLimit: getEnvInt("RECURSION_LIMIT", DefaultRecursionLimit),
		Provider:       Provider(getEnv("PROVIDER", "")),

		Azure: AzureSettings{
			APIVersion:     getEnv("openai_api_version", ""),
			APIKey:         getEnv("openai_api_key", ""),
			Endpoint:       getEnv("azure_endpoint", ""),
			DeploymentName: getEnv("deployment_name", ""),
		},
		Groq: GroqSettings{
			Model:  getEnv("GROQ_MODEL", ""),
			APIKey: getEnv("GROQ_API_KEY", ""),
		},
		Anthropic: AnthropicSettings{
			Model: getEnv("ANTHROPIC_MODEL", ""),
			Key:   getEnv("ANTHROPIC_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected provider is a known one. Missing
// credentials are not fatal here: the editor works without a planner,
// and the planner reports its own configuration errors on use.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderNone, ProviderAzureOpenAI, ProviderGroq, ProviderAnthropic:
		return nil
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ApplyToEnv writes the settings back into the process environment,
// matching the original behavior of the settings dialog: downstream
// automation reads these variables, not the Config struct.
func (c *Config) ApplyToEnv() {
	setEnv("SAP_SERVER", c.SAPServer)
	setEnv("SAP_USER", c.SAPUser)
	setEnv("SAP_PASSWORD", c.SAPPassword)
	setEnv("LANGCHAIN_PROJECT", c.LangChainProject)
	setEnv("LANGCHAIN_ENDPOINT", c.LangChainEndpoint)
	setEnv("LANGCHAIN_API_KEY", c.LangChainAPIKey)
	setEnv("RECURSION_LIMIT", strconv.Itoa(c.RecursionLimit))
	setEnv("PROVIDER", string(c.Provider))

	switch c.Provider {
	case ProviderAzureOpenAI:
		setEnv("openai_api_version", c.Azure.APIVersion)
		setEnv("openai_api_key", c.Azure.APIKey)
		setEnv("azure_endpoint", c.Azure.Endpoint)
		setEnv("deployment_name", c.Azure.DeploymentName)
	case ProviderGroq:
		setEnv("GROQ_MODEL", c.Groq.Model)
		setEnv("GROQ_API_KEY", c.Groq.APIKey)
	case ProviderAnthropic:
		setEnv("ANTHROPIC_MODEL", c.Anthropic.Model)
		setEnv("ANTHROPIC_KEY", c.Anthropic.Key)
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func setEnv(key, value string) {
	if value != "" {
		os.Setenv(key, value)
	}
}
