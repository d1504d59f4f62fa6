package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"voyager/infrastructure/config"
	pkgerrors "voyager/pkg/errors"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion  = "2023-06-01"
)

// anthropicPlanner converts flows through the Anthropic messages API.
// There is no OpenAI-compatible surface here, so the request is built
// directly.
type anthropicPlanner struct {
	httpClient *http.Client
	model      string
	apiKey     string
	logger     *zap.Logger
}

func newAnthropicPlanner(settings config.AnthropicSettings, logger *zap.Logger) (*anthropicPlanner, error) {
	if settings.Key == "" || settings.Model == "" {
		return nil, pkgerrors.NewValidationError("anthropic requires ANTHROPIC_KEY and ANTHROPIC_MODEL")
	}

	return &anthropicPlanner{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		model:      settings.Model,
		apiKey:     settings.Key,
		logger:     logger,
	}, nil
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ConvertToPlan implements ports.Planner
func (p *anthropicPlanner) ConvertToPlan(ctx context.Context, ask string) (string, error) {
	payload, err := json.Marshal(anthropicRequest{
		Model:     p.model,
		MaxTokens: maxCompletionTokens,
		System:    systemMessage,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildPrompt(ask)},
		},
	})
	if err != nil {
		return "", pkgerrors.NewInternalError("encode anthropic request").WithCause(err)
	}

	var lastErr error
	for attempt := 0; attempt <= retryAttempts; attempt++ {
		if ctx.Err() != nil {
			break
		}

		text, err := p.send(ctx, payload)
		if err != nil {
			lastErr = err
			p.logger.Warn("plan conversion attempt failed",
				zap.String("service", "anthropic"),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}
		return text + guidanceFooter, nil
	}

	return "", pkgerrors.NewExternalError("anthropic", lastErr)
}

func (p *anthropicPlanner) send(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var decoded anthropicResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("%s: %s", decoded.Error.Type, decoded.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	for _, block := range decoded.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("response contained no text block")
}
