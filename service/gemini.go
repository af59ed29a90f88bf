package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/soorajhamirani/ContractGuard-AI/config"
	"github.com/soorajhamirani/ContractGuard-AI/model"
)

// ErrMalformedResponse indicates the reasoning service returned output
// that is not the JSON clause list we asked for.
var ErrMalformedResponse = errors.New("reasoning service returned malformed output")

// GeminiService calls the Gemini generateContent API to classify contract
// clauses by risk.
type GeminiService struct {
	config     *config.GeminiConfig
	httpClient *http.Client
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

// geminiResponse is the subset of the generateContent response we read.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func NewGeminiService(cfg *config.GeminiConfig) *GeminiService {
	return &GeminiService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// AnalyzeClauses sends the contract text to the model and parses the
// structured clause assessments out of its response.
func (s *GeminiService) AnalyzeClauses(ctx context.Context, contractText string) ([]model.Clause, error) {
	if s.config.APIKey == "" {
		return nil, errors.New("GOOGLE_API_KEY is not configured")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: s.buildPrompt(contractText)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:      s.config.Temperature,
			ResponseMIMEType: "application/json",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(s.config.APIURL, "/"), s.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-goog-api-key", s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("invalid Google API key (status %d): %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Gemini API status %d: %s", resp.StatusCode, string(body))
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrMalformedResponse, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("Gemini API error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no candidates in response", ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	content := []byte(stripCodeFence(sb.String()))

	schema := BuildClauseListSchema()
	if err := ValidateJSONAgainstSchema(schema, content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var clauses []model.Clause
	if err := json.Unmarshal(content, &clauses); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return clauses, nil
}

// buildPrompt asks for a strict JSON clause list matching the schema.
func (s *GeminiService) buildPrompt(contractText string) string {
	if max := s.config.MaxInputChars; max > 0 && len(contractText) > max {
		// back up to a rune boundary so the cut never splits a character
		cut := max
		for cut > 0 && !utf8.RuneStart(contractText[cut]) {
			cut--
		}
		contractText = contractText[:cut]
	}

	var b strings.Builder
	b.WriteString("You are a legal contract risk analyst. ")
	b.WriteString("Identify the legally significant clauses in the contract below and assess each one. ")
	b.WriteString("Return ONLY a JSON array that matches the provided JSON Schema, with no prose and no markdown. ")
	b.WriteString("For each clause: 'clause' is the verbatim text span, 'risk_type' is exactly one of ")
	b.WriteString(strings.Join(model.RiskTypes, ", "))
	b.WriteString(", 'risk_score' is an integer 1-10 (10 = most severe), 'reasoning' briefly explains the risk, ")
	b.WriteString("'suggested_revision' rewrites the clause to reduce the risk, and 'confidence' is your certainty from 0 to 1. ")
	b.WriteString("Never output null. If the document contains no significant clauses, return [].\n\n")
	b.WriteString("JSON Schema:\n")
	b.WriteString(mustJSON(BuildClauseListSchema()))
	b.WriteString("\n\nContract text:\n")
	b.WriteString(contractText)
	return b.String()
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its JSON in one despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line (e.g. ```json)
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
