package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/prompts"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider implements Provider against the Gemini generateContent
// endpoint. Gemini has no separate system role on this endpoint, so the
// system prompt is sent via systemInstruction.
type GeminiProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *resty.Client
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewGeminiProvider creates a Gemini provider using the given credential
// and model.
func NewGeminiProvider(apiKey, model string, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		client:  resty.New().SetTimeout(timeout),
	}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) IsEnabled() bool {
	return p.apiKey != ""
}

func (p *GeminiProvider) Complete(ctx context.Context, prompt prompts.Prompt) (string, error) {
	if !p.IsEnabled() {
		return "", &ConfigurationError{Provider: p.Name(), Reason: "GEMINI_API_KEY is not set"}
	}

	body := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: prompt.System}},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt.User}}},
		},
		GenerationConfig: geminiGenConfig{MaxOutputTokens: prompt.MaxTokens},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", p.apiKey).
		SetBody(body).
		Post(url)

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

	var apiResp geminiResponse
	if err := json.Unmarshal(resp.Body(), &apiResp); err != nil {
		return "", &ProviderError{Provider: p.Name(), Reason: "malformed response body", Err: err}
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Provider: p.Name(), Reason: "response contains no candidate text"}
	}

	text := apiResp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", &ProviderError{Provider: p.Name(), Reason: "response contains no candidate text"}
	}

	logrus.Debugf("Gemini call returned %d candidates", len(apiResp.Candidates))

	return text, nil
}
