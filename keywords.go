// keywords.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// KeywordService identifies an extraction backend.
type KeywordService string

const (
	ServiceOpenAI    KeywordService = "openai"
	ServiceAnthropic KeywordService = "anthropic"
	ServiceGoogle    KeywordService = "google"
)

const (
	maxKeywords      = 12
	maxPromptText    = 3000
	extractorTimeout = 30 * time.Second
)

var serviceEndpoints = map[KeywordService]struct {
	Name     string
	Endpoint string
	Model    string
}{
	ServiceOpenAI: {
		Name:     "OpenAI GPT",
		Endpoint: "https://api.openai.com/v1/chat/completions",
		Model:    "gpt-3.5-turbo",
	},
	ServiceAnthropic: {
		Name:     "Anthropic Claude",
		Endpoint: "https://api.anthropic.com/v1/messages",
		Model:    "claude-3-haiku-20240307",
	},
	ServiceGoogle: {
		Name:     "Google Gemini",
		Endpoint: "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent",
		Model:    "gemini-pro",
	},
}

// AuthenticationError means the service rejected the supplied credentials.
type AuthenticationError struct {
	Service KeywordService
	Status  int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s rejected credentials (status %d)", e.Service, e.Status)
}

// ServiceUnavailableError means the service could not be reached or answered
// with a non-auth failure. Callers are expected to fall back to their default
// dimension set.
type ServiceUnavailableError struct {
	Service KeywordService
	Reason  string
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Service, e.Reason)
}

// KeywordExtractor calls an external model to turn qualitative research text
// into measurable dimension names. Credentials are held per-call only and are
// never logged or persisted.
type KeywordExtractor struct {
	client *http.Client
}

func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{client: &http.Client{Timeout: extractorTimeout}}
}

// ExtractKeywords asks the given service for up to maxKeywords attribute
// names. The api key lives only in the request being built.
func (k *KeywordExtractor) ExtractKeywords(ctx context.Context, text, industryContext string, service KeywordService, apiKey string) ([]string, error) {
	svc, ok := serviceEndpoints[service]
	if !ok {
		return nil, &ServiceUnavailableError{Service: service, Reason: "unsupported service"}
	}
	prompt := extractionPrompt(text, industryContext)

	var req *http.Request
	var err error
	switch service {
	case ServiceOpenAI:
		req, err = openAIRequest(ctx, svc.Endpoint, svc.Model, prompt, apiKey)
	case ServiceAnthropic:
		req, err = anthropicRequest(ctx, svc.Endpoint, svc.Model, prompt, apiKey)
	case ServiceGoogle:
		req, err = googleRequest(ctx, svc.Endpoint, prompt, apiKey)
	}
	if err != nil {
		return nil, &ServiceUnavailableError{Service: service, Reason: err.Error()}
	}

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, &ServiceUnavailableError{Service: service, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &AuthenticationError{Service: service, Status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceUnavailableError{Service: service, Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServiceUnavailableError{Service: service, Reason: err.Error()}
	}
	content, err := extractContent(service, body)
	if err != nil {
		return nil, &ServiceUnavailableError{Service: service, Reason: err.Error()}
	}
	return ParseKeywords(content), nil
}

func extractionPrompt(text, industryContext string) string {
	if len(text) > maxPromptText {
		text = text[:maxPromptText] + "..."
	}
	return fmt.Sprintf(`You are an expert in perceptual mapping and market research. Analyze the following qualitative research data to extract key product attributes/dimensions that are important to users.

INDUSTRY CONTEXT:
%s

QUALITATIVE RESEARCH DATA:
%s

TASK:
Extract exactly %d key product attributes that users care about most. These will be used for perceptual mapping analysis.

REQUIREMENTS:
1. Each attribute should be a measurable product characteristic
2. Use clear, actionable attribute names (e.g., "Camera_Quality", "Battery_Life")
3. Focus on attributes mentioned or implied by users
4. Avoid redundant or overlapping attributes
5. Prioritize attributes that differentiate products in this market

FORMAT YOUR RESPONSE EXACTLY AS:
1. Attribute_Name_1
2. Attribute_Name_2
...
%d. Attribute_Name_%d

Do not include explanations, descriptions, or additional text. Only provide the numbered list of attribute names.`,
		industryContext, text, maxKeywords, maxKeywords, maxKeywords)
}

func openAIRequest(ctx context.Context, endpoint, model, prompt, apiKey string) (*http.Request, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  300,
		"temperature": 0.3,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func anthropicRequest(ctx context.Context, endpoint, model, prompt, apiKey string) (*http.Request, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"model":      model,
		"max_tokens": 300,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("anthropic-version", "2023-06-01")
	return req, nil
}

func googleRequest(ctx context.Context, endpoint, prompt, apiKey string) (*http.Request, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": 300,
			"temperature":     0.3,
		},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func extractContent(service KeywordService, body []byte) (string, error) {
	switch service {
	case ServiceOpenAI:
		var r struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(body, &r); err != nil {
			return "", err
		}
		if len(r.Choices) == 0 {
			return "", fmt.Errorf("empty choices in response")
		}
		return r.Choices[0].Message.Content, nil
	case ServiceAnthropic:
		var r struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &r); err != nil {
			return "", err
		}
		if len(r.Content) == 0 {
			return "", fmt.Errorf("empty content in response")
		}
		return r.Content[0].Text, nil
	case ServiceGoogle:
		var r struct {
			Candidates []struct {
				Content struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
		}
		if err := json.Unmarshal(body, &r); err != nil {
			return "", err
		}
		if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("empty candidates in response")
		}
		return r.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", fmt.Errorf("unsupported service")
}

var (
	numberedLine = regexp.MustCompile(`^\d+[\.\)]\s*(.+)`)
	keywordJunk  = regexp.MustCompile(`[^\w\s_]`)
)

// ParseKeywords reads attribute names from a numbered-list response,
// tolerating lines where the numbering is missing. Duplicates are dropped
// while preserving order.
func ParseKeywords(response string) []string {
	keywords := []string{}
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var kw string
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			kw = m[1]
		} else if !hasDigitPrefix(line) {
			kw = line
		} else {
			continue
		}
		kw = keywordJunk.ReplaceAllString(kw, "")
		kw = strings.ReplaceAll(strings.TrimSpace(kw), " ", "_")
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}

	seen := map[string]bool{}
	unique := []string{}
	for _, kw := range keywords {
		if !seen[kw] {
			seen[kw] = true
			unique = append(unique, kw)
		}
	}
	if len(unique) > maxKeywords {
		unique = unique[:maxKeywords]
	}
	return unique
}

// DefaultDimensions is the fallback dimension set when keyword extraction is
// unavailable or rejected.
var DefaultDimensions = []string{
	"Camera_Quality", "Battery_Life", "Performance", "Price_Value",
	"Build_Quality", "Design_Appeal", "Feature_Richness",
}

// ProposeDimensions validates free-form feedback text against the word count
// window and turns it into a rating dimension set for generated panels.
func (k *KeywordExtractor) ProposeDimensions(ctx context.Context, text, industryContext string, service KeywordService, apiKey string) ([]string, error) {
	if err := DefaultValidationLimits().ValidateQualitativeText(text); err != nil {
		return nil, err
	}
	return k.DimensionsFromText(ctx, text, industryContext, service, apiKey), nil
}

// DimensionsFromText extracts dimension names from qualitative text, falling
// back to DefaultDimensions on any service failure. The extraction is an
// enhancement, never a gate.
func (k *KeywordExtractor) DimensionsFromText(ctx context.Context, text, industryContext string, service KeywordService, apiKey string) []string {
	keywords, err := k.ExtractKeywords(ctx, text, industryContext, service, apiKey)
	if err != nil || len(keywords) == 0 {
		if err != nil {
			log.Printf("keyword extraction unavailable, using default dimensions: %v", err)
		}
		return DefaultDimensions
	}
	return keywords
}

func hasDigitPrefix(line string) bool {
	n := 3
	if len(line) < n {
		n = len(line)
	}
	for _, c := range line[:n] {
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}
