// Package detector suggests additional sensitive key names by asking a
// local LLM to review configuration content. Detection is advisory: every
// failure degrades to pattern-only masking, never aborts a run.
package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/confmask/confmask/internal/config"
	"github.com/confmask/confmask/internal/logger"
)

// Client detects sensitive configuration keys in file content.
type Client interface {
	// DetectSensitiveKeys returns key names (dotted paths or bare keys)
	// the model considers credential-like.
	DetectSensitiveKeys(ctx context.Context, content string) ([]string, error)
	// Available reports whether the backing service is reachable and the
	// configured model is usable.
	Available(ctx context.Context) bool
	// ListModels returns the models the backing service offers.
	ListModels(ctx context.Context) ([]string, error)
}

// New creates a detector client for the configured provider. Unknown
// providers fall back to Ollama.
func New(cfg config.DetectorConfig, log *logger.Logger) Client {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg, log)
	default:
		return NewOllama(cfg, log)
	}
}

const defaultPromptTemplate = `You are a security expert reviewing application configuration files.
Identify every key in the following configuration content whose value contains
sensitive data: passwords, API keys, tokens, credentials, encryption or signing
keys, connection secrets.

Configuration content:
` + "```" + `
{content}
` + "```" + `

Important: respond with the JSON below and nothing else. No explanations.
If sensitive keys exist:
{"sensitive_keys": ["spring.datasource.password", "jwt.secret"]}
If none exist:
{"sensitive_keys": []}`

// buildPrompt substitutes the file content into the prompt template.
func buildPrompt(template, content string) string {
	if template == "" {
		template = defaultPromptTemplate
	}
	return strings.ReplaceAll(template, "{content}", content)
}

// parseSensitiveKeys extracts the sensitive_keys list from a model reply.
// Models wrap JSON in code fences or prose often enough that we scrape out
// the first balanced object before unmarshaling.
func parseSensitiveKeys(reply string) ([]string, error) {
	reply = strings.TrimSpace(reply)

	if idx := strings.Index(reply, "```json"); idx != -1 {
		reply = reply[idx+len("```json"):]
		if end := strings.Index(reply, "```"); end != -1 {
			reply = reply[:end]
		}
	} else if idx := strings.Index(reply, "```"); idx != -1 {
		reply = reply[idx+3:]
		if end := strings.Index(reply, "```"); end != -1 {
			reply = reply[:end]
		}
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model reply")
	}

	var parsed struct {
		SensitiveKeys []string `json:"sensitive_keys"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("parsing model reply: %w", err)
	}
	return parsed.SensitiveKeys, nil
}
