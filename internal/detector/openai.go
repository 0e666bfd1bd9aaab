package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/confmask/confmask/internal/config"
	"github.com/confmask/confmask/internal/logger"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint,
// including Ollama's compatibility mode and LM Studio.
type OpenAI struct {
	cfg     config.DetectorConfig
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewOpenAI creates an OpenAI-compatible detector client. The API key is
// taken from CONFMASK_LLM_API_KEY and optional.
func NewOpenAI(cfg config.DetectorConfig, log *logger.Logger) *OpenAI {
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAI{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:  os.Getenv("CONFMASK_LLM_API_KEY"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  log,
	}
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []ollamaMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// DetectSensitiveKeys asks the model for credential-like keys in content.
func (c *OpenAI) DetectSensitiveKeys(ctx context.Context, content string) ([]string, error) {
	prompt := buildPrompt(c.cfg.PromptTemplate, content)

	maxRetries := c.cfg.MaxRetries
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

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		reply, err := c.complete(ctx, prompt)
		if err != nil {
			lastErr = err
			c.logger.Warn("Completion request failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}
		return parseSensitiveKeys(reply)
	}
	return nil, fmt.Errorf("detection failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	body := openaiRequest{
		Model: c.cfg.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: "You are a security expert. Respond with valid JSON only."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
		MaxTokens:   2000,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp openaiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Available reports whether the models endpoint responds.
func (c *OpenAI) Available(ctx context.Context) bool {
	_, err := c.ListModels(ctx)
	return err == nil
}

// ListModels returns the model IDs the endpoint offers.
func (c *OpenAI) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d)", httpResp.StatusCode)
	}

	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing model list: %w", err)
	}

	names := make([]string, 0, len(parsed.Data))
	for _, model := range parsed.Data {
		names = append(names, model.ID)
	}
	return names, nil
}
