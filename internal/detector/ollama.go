package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/confmask/confmask/internal/config"
	"github.com/confmask/confmask/internal/logger"
)

// Ollama talks to a local Ollama server. The chat endpoint is preferred;
// requests fall back to the generate endpoint when chat fails.
type Ollama struct {
	cfg     config.DetectorConfig
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewOllama creates an Ollama detector client.
func NewOllama(cfg config.DetectorConfig, log *logger.Logger) *Ollama {
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Ollama{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.Endpoint, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  log,
	}
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Message  struct {
		Content string `json:"content"`
	} `json:"message"`
}

// DetectSensitiveKeys asks the model for credential-like keys in content.
// Transient request failures are retried with exponential backoff.
func (o *Ollama) DetectSensitiveKeys(ctx context.Context, content string) ([]string, error) {
	prompt := buildPrompt(o.cfg.PromptTemplate, content)

	maxRetries := o.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second << (attempt - 1)):
			}
		}

		if err := o.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		reply, err := o.chat(ctx, prompt)
		if err != nil {
			o.logger.Debug("Chat endpoint failed, falling back to generate", zap.Error(err))
			reply, err = o.generate(ctx, prompt)
		}
		if err != nil {
			lastErr = err
			o.logger.Warn("Ollama request failed",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", maxRetries),
				zap.Error(err),
			)
			continue
		}

		keys, err := parseSensitiveKeys(reply)
		if err != nil {
			o.logger.Warn("Unparseable Ollama reply", zap.Error(err))
			return nil, err
		}
		return keys, nil
	}
	return nil, fmt.Errorf("ollama detection failed after %d attempts: %w", maxRetries, lastErr)
}

func (o *Ollama) chat(ctx context.Context, prompt string) (string, error) {
	body := ollamaChatRequest{
		Model: o.cfg.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: "You are a security expert. Always respond with valid JSON only, no explanations."},
			{Role: "user", Content: prompt},
		},
		Stream:  false,
		Options: ollamaOptions{Temperature: 0.1},
	}

	resp, err := o.post(ctx, "/api/chat", body)
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

func (o *Ollama) generate(ctx context.Context, prompt string) (string, error) {
	body := ollamaGenerateRequest{
		Model:   o.cfg.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: ollamaOptions{Temperature: 0.1, NumPredict: 2000},
	}

	resp, err := o.post(ctx, "/api/generate", body)
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

func (o *Ollama) post(ctx context.Context, path string, body any) (*ollamaResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama API error (status %d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &resp, nil
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Available reports whether the server responds and has the configured
// model installed. Tag variants count: "gemma3" matches "gemma3:27b".
func (o *Ollama) Available(ctx context.Context) bool {
	tags, err := o.fetchTags(ctx)
	if err != nil {
		o.logger.Debug("Ollama not reachable", zap.Error(err))
		return false
	}

	modelBase, _, _ := strings.Cut(o.cfg.Model, ":")
	for _, model := range tags.Models {
		if strings.Contains(model.Name, modelBase) {
			return true
		}
	}
	return false
}

// ListModels returns the names of all installed models.
func (o *Ollama) ListModels(ctx context.Context) ([]string, error) {
	tags, err := o.fetchTags(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags.Models))
	for _, model := range tags.Models {
		names = append(names, model.Name)
	}
	return names, nil
}

func (o *Ollama) fetchTags(ctx context.Context) (*ollamaTagsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpResp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama API error (status %d)", httpResp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("parsing model list: %w", err)
	}
	return &tags, nil
}
