// Package summary produces the one-to-two sentence company summary shown on
// public profiles. It calls an OpenAI-compatible chat completions endpoint
// when a key is configured and falls back to a deterministic heuristic
// sentence otherwise, so extraction output always carries a summary.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"risclens_backend/platform/config"
	"risclens_backend/platform/logger"
)

const (
	requestTimeout = 30 * time.Second
	snippetLimit   = 3000
	maxTokens      = 150
)

// Input carries everything the summarizer may reference about a domain.
type Input struct {
	Domain                 string
	DiscoveredURLs         []string
	DetectedTools          []string
	DetectedCertifications []string
	CombinedText           string
	PageCount              int
}

// Summarizer generates a profile summary for one extraction run.
type Summarizer interface {
	Summarize(ctx context.Context, in Input) string
}

// Client is the OpenAI-backed Summarizer.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	log        *logger.Logger
}

// NewClient builds a summarizer from configuration. When no API key is
// configured the client still works, serving heuristic summaries only.
func NewClient(cfg config.SummaryConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimSuffix(cfg.GetOpenAIBaseURL(), "/"),
		apiKey:     cfg.GetOpenAIAPIKey(),
		model:      cfg.GetOpenAIModel(),
		log:        log,
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	MaxTokens      int            `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type summaryPayload struct {
	AISummary string `json:"ai_summary"`
}

// Summarize returns the model's summary, or the heuristic fallback on any
// failure. It never returns an error; a summary of some kind always exists.
func (c *Client) Summarize(ctx context.Context, in Input) string {
	if c.apiKey == "" {
		return Fallback(in)
	}

	out, err := c.complete(ctx, in)
	if err != nil {
		c.log.Warn("ai summary failed, using fallback", "domain", in.Domain, "error", err.Error())
		return Fallback(in)
	}
	if out == "" {
		return Fallback(in)
	}
	return out
}

func (c *Client) complete(ctx context.Context, in Input) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: buildPrompt(in)}},
		ResponseFormat: responseFormat{Type: "json_object"},
		MaxTokens:      maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, string(msg))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &payload); err != nil {
		return "", fmt.Errorf("parse summary content: %w", err)
	}
	return payload.AISummary, nil
}

func buildPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("You are analyzing a company's security posture based on their public web pages.\n\n")
	fmt.Fprintf(&b, "Domain: %s\n", in.Domain)
	if in.PageCount > 0 {
		fmt.Fprintf(&b, "Pages found: %s\n", strings.Join(in.DiscoveredURLs, ", "))
	} else {
		b.WriteString("No security pages found.\n")
	}
	if len(in.DetectedTools) > 0 {
		fmt.Fprintf(&b, "Compliance tools detected: %s\n", strings.Join(in.DetectedTools, ", "))
	}
	if len(in.DetectedCertifications) > 0 {
		fmt.Fprintf(&b, "Certifications mentioned: %s\n", strings.Join(in.DetectedCertifications, ", "))
	}

	snippet := in.CombinedText
	if len(snippet) > snippetLimit {
		snippet = snippet[:snippetLimit]
	}
	if snippet == "" {
		snippet = "Domain: " + in.Domain
	}
	fmt.Fprintf(&b, "\nContent snippet:\n%s\n\n", snippet)

	b.WriteString("Provide a brief 1-2 sentence summary of this company's apparent business and security posture. ")
	b.WriteString("Be factual and neutral. If no content was found, base it on the domain name.\n\n")
	b.WriteString("Format as JSON:\n{\n  \"ai_summary\": \"string\"\n}")
	return b.String()
}

// Fallback composes a summary from detected signals without any model call.
func Fallback(in Input) string {
	certs := strings.Join(in.DetectedCertifications, ", ")
	tools := strings.Join(in.DetectedTools, ", ")
	if certs == "" && tools == "" {
		return fmt.Sprintf("%s is a technology company with an established online presence.", in.Domain)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s demonstrates a strong security posture", in.Domain)
	if certs != "" {
		fmt.Fprintf(&b, " with certifications like %s", certs)
	}
	if tools != "" {
		fmt.Fprintf(&b, " and utilizes %s for compliance", tools)
	}
	b.WriteString(".")
	return b.String()
}

var _ Summarizer = (*Client)(nil)
