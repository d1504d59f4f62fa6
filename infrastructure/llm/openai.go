package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"voyager/infrastructure/config"
	pkgerrors "voyager/pkg/errors"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// openAIPlanner converts flows through any OpenAI-compatible chat
// completion endpoint. Azure OpenAI and GROQ both resolve here, only
// the client configuration differs.
type openAIPlanner struct {
	client  *openai.Client
	model   string
	service string
	logger  *zap.Logger
}

func newAzurePlanner(settings config.AzureSettings, logger *zap.Logger) (*openAIPlanner, error) {
	if settings.APIKey == "" || settings.Endpoint == "" || settings.DeploymentName == "" {
		return nil, pkgerrors.NewValidationError("azure openai requires openai_api_key, azure_endpoint and deployment_name")
	}

	clientCfg := openai.DefaultAzureConfig(settings.APIKey, settings.Endpoint)
	if settings.APIVersion != "" {
		clientCfg.APIVersion = settings.APIVersion
	}

	return &openAIPlanner{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   settings.DeploymentName,
		service: "azure-openai",
		logger:  logger,
	}, nil
}

func newGroqPlanner(settings config.GroqSettings, logger *zap.Logger) (*openAIPlanner, error) {
	if settings.APIKey == "" || settings.Model == "" {
		return nil, pkgerrors.NewValidationError("groq requires GROQ_API_KEY and GROQ_MODEL")
	}

	clientCfg := openai.DefaultConfig(settings.APIKey)
	clientCfg.BaseURL = groqBaseURL

	return &openAIPlanner{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   settings.Model,
		service: "groq",
		logger:  logger,
	}, nil
}

// ConvertToPlan implements ports.Planner
func (p *openAIPlanner) ConvertToPlan(ctx context.Context, ask string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(ask)},
		},
		MaxTokens:   maxCompletionTokens,
		Temperature: 0,
	}

	var lastErr error
	for attempt := 0; attempt <= retryAttempts; attempt++ {
		if ctx.Err() != nil {
			break
		}

		response, err := p.client.CreateChatCompletion(ctx, request)
		if err != nil {
			lastErr = err
			p.logger.Warn("plan conversion attempt failed",
				zap.String("service", p.service),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}
		if len(response.Choices) == 0 {
			lastErr = pkgerrors.NewExternalError(p.service, nil).WithDetails(map[string]interface{}{
				"reason": "empty choices",
			})
			continue
		}

		return response.Choices[0].Message.Content + guidanceFooter, nil
	}

	return "", pkgerrors.NewExternalError(p.service, lastErr)
}
