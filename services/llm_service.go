package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
	"google.golang.org/genai"

	"collegerag/models"
)

// maxAnswerTokens caps chat completion length for the OpenRouter provider.
const maxAnswerTokens = 2000

//go:generate mockgen -source=llm_service.go -destination=mock_llm_provider.go -package=services LLMProvider

// LLMProvider generates an answer from a system prompt and a user prompt.
type LLMProvider interface {
	Name() string
	Model() string
	GenerateAnswer(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// ----------------------------------------------------------------------
// OpenRouter (OpenAI-compatible chat completions)
// ----------------------------------------------------------------------

type openRouterProvider struct {
	client      *openai.Client
	model       string
	temperature float64
}

// NewOpenRouterProvider creates a provider that talks to OpenRouter through
// the OpenAI-compatible chat completions API.
func NewOpenRouterProvider(apiKey, baseURL, model string, temperature float64) LLMProvider {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &openRouterProvider{
		client:      &client,
		model:       model,
		temperature: temperature,
	}
}

func (p *openRouterProvider) Name() string  { return "OpenRouter" }
func (p *openRouterProvider) Model() string { return p.model }

func (p *openRouterProvider) GenerateAnswer(ctx context.Context, systemPrompt, prompt string) (string, error) {
	res, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: param.Opt[float64]{Value: p.temperature},
		MaxTokens:   param.Opt[int64]{Value: maxAnswerTokens},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return res.Choices[0].Message.Content, nil
}

// ----------------------------------------------------------------------
// Ollama (local generate API)
// ----------------------------------------------------------------------

type ollamaProvider struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	temperature float64
}

// NewOllamaProvider creates a provider backed by a local Ollama server.
func NewOllamaProvider(httpClient *http.Client, baseURL, model string, temperature float64) LLMProvider {
	return &ollamaProvider{
		httpClient:  httpClient,
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
	}
}

func (p *ollamaProvider) Name() string  { return "Ollama" }
func (p *ollamaProvider) Model() string { return p.model }

func (p *ollamaProvider) GenerateAnswer(ctx context.Context, systemPrompt, prompt string) (string, error) {
	reqBody, err := json.Marshal(models.OllamaGenerateRequest{
		Model:   p.model,
		Prompt:  prompt,
		System:  systemPrompt,
		Stream:  false,
		Options: map[string]interface{}{"temperature": p.temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create ollama http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama generate api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ollamaResp models.OllamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}
	return ollamaResp.Response, nil
}

// ----------------------------------------------------------------------
// Gemini
// ----------------------------------------------------------------------

type geminiProvider struct {
	client      *genai.Client
	model       string
	temperature float64
}

// NewGeminiProvider creates a provider backed by the Gemini API.
func NewGeminiProvider(client *genai.Client, model string, temperature float64) LLMProvider {
	return &geminiProvider{
		client:      client,
		model:       model,
		temperature: temperature,
	}
}

func (p *geminiProvider) Name() string  { return "Gemini" }
func (p *geminiProvider) Model() string { return p.model }

func (p *geminiProvider) GenerateAnswer(ctx context.Context, systemPrompt, prompt string) (string, error) {
	temperature := float32(p.temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if contents := genai.Text(systemPrompt); len(contents) > 0 {
		config.SystemInstruction = contents[0]
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	var responseText strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			responseText.WriteString(part.Text)
		}
	}
	return responseText.String(), nil
}
