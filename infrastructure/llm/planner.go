// Package llm implements the plan-conversion port against the
// selectable providers: Azure OpenAI, GROQ, and Anthropic.
package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"voyager/application/ports"
	"voyager/infrastructure/config"
	pkgerrors "voyager/pkg/errors"
)

// planPrompt is the outer frame handed to the model: the analysis
// instruction, the tool inventory, then the caller's ask.
const planPrompt = `
Given a user's free text input related to SAP GUI automation,
please analyze the content and create an execution plan without any feedback and codes and
by using the available tools and create a plan to execute the tools in proper manner.

%s

User Input - %s
`

// guidanceFooter is appended to every plan so the executor treats the
// output as guidance, not gospel.
const guidanceFooter = "\n\nNote - This is Guidance. Do not blindly follow these instructions. Feel free to fetch the execution result and pivot the plan."

const systemMessage = "You are a helpful assistant to analyse images."

// defaultTools is the SAP GUI tool inventory advertised to the model
var defaultTools = []string{
	"open_transaction",
	"set_field_value",
	"press_button",
	"select_menu_item",
	"read_field_value",
	"read_table",
	"take_screenshot",
	"close_session",
}

// toolList renders the numbered tool inventory for the prompt
func toolList(tools []string) string {
	var b strings.Builder
	for i, tool := range tools {
		fmt.Fprintf(&b, "%d. %s, value :\n", i+1, tool)
	}
	return b.String()
}

// buildPrompt assembles the full prompt for an ask
func buildPrompt(ask string) string {
	return fmt.Sprintf(planPrompt, toolList(defaultTools), ask)
}

// maxCompletionTokens bounds plan length
const maxCompletionTokens = 2000

// retryAttempts is how many times a transient provider failure is retried
const retryAttempts = 2

// NewPlannerFromConfig builds the planner selected in settings. With
// no provider selected the planner is nil and the run trigger reports
// a configuration notice instead of calling out.
func NewPlannerFromConfig(cfg *config.Config, logger *zap.Logger) (ports.Planner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Provider {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderAzureOpenAI:
		return newAzurePlanner(cfg.Azure, logger)
	case config.ProviderGroq:
		return newGroqPlanner(cfg.Groq, logger)
	case config.ProviderAnthropic:
		return newAnthropicPlanner(cfg.Anthropic, logger)
	default:
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown provider %q", cfg.Provider))
	}
}
