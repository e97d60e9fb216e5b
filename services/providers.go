package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ondieki1237/kenicweb-sub000/shared"
)

// IdeaProvider generates short brandable name ideas for a business
// description. Providers are interchangeable and attempted at most once per
// request; the suggestion service iterates an ordered list until one
// succeeds.
type IdeaProvider interface {
	Name() string
	GenerateIdeas(ctx context.Context, businessDescription string, count int) ([]string, error)
}

const providerTimeout = 30 * time.Second

func ideaPrompt(businessDescription string, count int) string {
	return fmt.Sprintf(
		"Suggest %d short, brandable domain name ideas for the following Kenyan business. "+
			"Reply with only the names, one per line, no numbering, no explanations, no TLD extensions.\n\nBusiness: %s",
		count, businessDescription)
}

var ideaListDecoration = regexp.MustCompile(`^[\s\d.*•)-]+`)

// parseIdeas splits a model response on newlines and commas, strips list
// decoration and quotes, and keeps only domain-safe tokens.
func parseIdeas(text string, count int) []string {
	var ideas []string
	for _, line := range strings.Split(text, "\n") {
		for _, token := range strings.Split(line, ",") {
			token = ideaListDecoration.ReplaceAllString(token, "")
			token = strings.Trim(token, "\"'` \t")
			token = strings.ToLower(strings.TrimSpace(token))
			token = strings.ReplaceAll(token, " ", "")
			if token == "" || !domainCharset.MatchString(token) {
				continue
			}
			ideas = append(ideas, token)
			if len(ideas) == count {
				return ideas
			}
		}
	}
	return ideas
}

func providerError(name, operation string, cause error) error {
	return shared.NewServiceError(shared.ErrorCategoryProvider, "PROVIDER_FAILED",
		fmt.Sprintf("%s: %v", name, cause), name, operation, false, cause)
}

func providerEmptyError(name string) error {
	return shared.NewServiceError(shared.ErrorCategoryProvider, "PROVIDER_EMPTY",
		fmt.Sprintf("%s returned no usable name ideas", name), name, "GenerateIdeas", false, nil)
}

// GeminiProvider calls the Google Generative Language API.
type GeminiProvider struct {
	apiKey string
	client *http.Client
	url    string
}

func NewGeminiProvider(apiKey string, factory *shared.HTTPClientFactory) *GeminiProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		client: factory.CreateOptimizedHTTPClient(providerTimeout),
		url:    "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent",
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) GenerateIdeas(ctx context.Context, businessDescription string, count int) ([]string, error) {
	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": ideaPrompt(businessDescription, count)}}},
		},
	}
	body, err := shared.PostJSON(ctx, p.client, p.url, map[string]string{"x-goog-api-key": p.apiKey}, payload)
	if err != nil {
		return nil, providerError(p.Name(), "GenerateIdeas", err)
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, providerError(p.Name(), "GenerateIdeas", err)
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, providerEmptyError(p.Name())
	}

	ideas := parseIdeas(response.Candidates[0].Content.Parts[0].Text, count)
	if len(ideas) == 0 {
		return nil, providerEmptyError(p.Name())
	}
	return ideas, nil
}

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey string
	client *http.Client
	url    string
}

func NewOpenAIProvider(apiKey string, factory *shared.HTTPClientFactory) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey: apiKey,
		client: factory.CreateOptimizedHTTPClient(providerTimeout),
		url:    "https://api.openai.com/v1/chat/completions",
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) GenerateIdeas(ctx context.Context, businessDescription string, count int) ([]string, error) {
	payload := map[string]interface{}{
		"model": "gpt-4o-mini",
		"messages": []map[string]string{
			{"role": "user", "content": ideaPrompt(businessDescription, count)},
		},
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	body, err := shared.PostJSON(ctx, p.client, p.url, headers, payload)
	if err != nil {
		return nil, providerError(p.Name(), "GenerateIdeas", err)
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, providerError(p.Name(), "GenerateIdeas", err)
	}
	if len(response.Choices) == 0 {
		return nil, providerEmptyError(p.Name())
	}

	ideas := parseIdeas(response.Choices[0].Message.Content, count)
	if len(ideas) == 0 {
		return nil, providerEmptyError(p.Name())
	}
	return ideas, nil
}

// AnthropicProvider calls the Anthropic messages API.
type AnthropicProvider struct {
	apiKey string
	client *http.Client
	url    string
}

func NewAnthropicProvider(apiKey string, factory *shared.HTTPClientFactory) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey: apiKey,
		client: factory.CreateOptimizedHTTPClient(providerTimeout),
		url:    "https://api.anthropic.com/v1/messages",
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) GenerateIdeas(ctx context.Context, businessDescription string, count int) ([]string, error) {
	payload := map[string]interface{}{
		"model":      "claude-3-haiku-20240307",
		"max_tokens": 256,
		"messages": []map[string]string{
			{"role": "user", "content": ideaPrompt(businessDescription, count)},
		},
	}
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	}
	body, err := shared.PostJSON(ctx, p.client, p.url, headers, payload)
	if err != nil {
		return nil, providerError(p.Name(), "GenerateIdeas", err)
	}

	var response struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, providerError(p.Name(), "GenerateIdeas", err)
	}
	if len(response.Content) == 0 {
		return nil, providerEmptyError(p.Name())
	}

	ideas := parseIdeas(response.Content[0].Text, count)
	if len(ideas) == 0 {
		return nil, providerEmptyError(p.Name())
	}
	return ideas, nil
}

// CohereProvider calls the Cohere chat API, the last resort in the chain.
type CohereProvider struct {
	apiKey string
	client *http.Client
	url    string
}

func NewCohereProvider(apiKey string, factory *shared.HTTPClientFactory) *CohereProvider {
	return &CohereProvider{
		apiKey: apiKey,
		client: factory.CreateOptimizedHTTPClient(providerTimeout),
		url:    "https://api.cohere.com/v1/chat",
	}
}

func (p *CohereProvider) Name() string { return "cohere" }

func (p *CohereProvider) GenerateIdeas(ctx context.Context, businessDescription string, count int) ([]string, error) {
	payload := map[string]interface{}{
		"model":   "command-r",
		"message": ideaPrompt(businessDescription, count),
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	body, err := shared.PostJSON(ctx, p.client, p.url, headers, payload)
	if err != nil {
		return nil, providerError(p.Name(), "GenerateIdeas", err)
	}

	var response struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, providerError(p.Name(), "GenerateIdeas", err)
	}

	ideas := parseIdeas(response.Text, count)
	if len(ideas) == 0 {
		return nil, providerEmptyError(p.Name())
	}
	return ideas, nil
}
