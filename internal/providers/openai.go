package providers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/prompts"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider implements Provider against the OpenAI chat completions
// endpoint.
type OpenAIProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *resty.Client
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// NewOpenAIProvider creates an OpenAI provider using the given credential
// and model. The timeout bounds the full HTTP round trip.
func NewOpenAIProvider(apiKey, model string, timeout time.Duration) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultOpenAIBaseURL,
		client:  resty.New().SetTimeout(timeout),
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) IsEnabled() bool {
	return p.apiKey != ""
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt prompts.Prompt) (string, error) {
	if !p.IsEnabled() {
		return "", &ConfigurationError{Provider: p.Name(), Reason: "OPENAI_API_KEY is not set"}
	}

	body := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		MaxTokens: prompt.MaxTokens,
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+p.apiKey).
		SetBody(body).
		Post(p.baseURL + "/chat/completions")

	if err != nil {
		return "", &ProviderError{Provider: p.Name(), Reason: "request failed", Err: err}
	}

	if resp.StatusCode() != 200 {
		return "", &ProviderError{
			Provider:   p.Name(),
			StatusCode: resp.StatusCode(),
			Reason:     string(resp.Body()),
		}
	}

	var apiResp openAIResponse
	if err := json.Unmarshal(resp.Body(), &apiResp); err != nil {
		return "", &ProviderError{Provider: p.Name(), Reason: "malformed response body", Err: err}
	}

	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return "", &ProviderError{Provider: p.Name(), Reason: "response contains no completion text"}
	}

	logrus.Debugf("OpenAI call used %d prompt + %d completion tokens",
		apiResp.Usage.PromptTokens, apiResp.Usage.CompletionTokens)

	return apiResp.Choices[0].Message.Content, nil
}
