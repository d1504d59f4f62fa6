package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/infrastructure/config"
	pkgerrors "voyager/pkg/errors"
)

func TestBuildPromptListsTools(t *testing.T) {
	prompt := buildPrompt("connect the login node to the save node")

	assert.Contains(t, prompt, "1. open_transaction")
	assert.Contains(t, prompt, "8. close_session")
	assert.Contains(t, prompt, "User Input - connect the login node to the save node")
}

func TestNewPlannerFromConfigNone(t *testing.T) {
	planner, err := NewPlannerFromConfig(&config.Config{Provider: config.ProviderNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, planner)
}

func TestNewPlannerFromConfigUnknownProvider(t *testing.T) {
	_, err := NewPlannerFromConfig(&config.Config{Provider: config.Provider("skynet")}, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewPlannerRequiresCredentials(t *testing.T) {
	cases := []config.Provider{
		config.ProviderAzureOpenAI,
		config.ProviderGroq,
		config.ProviderAnthropic,
	}
	for _, provider := range cases {
		_, err := NewPlannerFromConfig(&config.Config{Provider: provider}, nil)
		assert.Error(t, err, "provider %s with no credentials", provider)
	}
}

func TestNewPlannerGroqConfigured(t *testing.T) {
	cfg := &config.Config{
		Provider: config.ProviderGroq,
		Groq: config.GroqSettings{
			Model:  "llama-3.3-70b-versatile",
			APIKey: "gsk_test",
		},
	}
	planner, err := NewPlannerFromConfig(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, planner)
}

func TestNewPlannerAnthropicConfigured(t *testing.T) {
	cfg := &config.Config{
		Provider: config.ProviderAnthropic,
		Anthropic: config.AnthropicSettings{
			Model: "claude-3-5-sonnet-latest",
			Key:   "sk-ant-test",
		},
	}
	planner, err := NewPlannerFromConfig(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, planner)
}
