package detector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/confmask/confmask/internal/config"
	"github.com/confmask/confmask/internal/logger"
)

func TestParseSensitiveKeys(t *testing.T) {
	t.Run("PlainJSON", func(t *testing.T) {
		keys, err := parseSensitiveKeys(`{"sensitive_keys": ["db.password", "jwt.secret"]}`)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(keys, []string{"db.password", "jwt.secret"}) {
			t.Errorf("keys = %v", keys)
		}
	})

	t.Run("JSONCodeFence", func(t *testing.T) {
		reply := "```json\n{\"sensitive_keys\": [\"api.key\"]}\n```"
		keys, err := parseSensitiveKeys(reply)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(keys, []string{"api.key"}) {
			t.Errorf("keys = %v", keys)
		}
	})

	t.Run("SurroundingProse", func(t *testing.T) {
		reply := `Here are the sensitive keys I found:
{"sensitive_keys": ["db.password"]}
Let me know if you need more.`
		keys, err := parseSensitiveKeys(reply)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(keys, []string{"db.password"}) {
			t.Errorf("keys = %v", keys)
		}
	})

	t.Run("EmptyList", func(t *testing.T) {
		keys, err := parseSensitiveKeys(`{"sensitive_keys": []}`)
		if err != nil {
			t.Fatal(err)
		}
		if len(keys) != 0 {
			t.Errorf("keys = %v", keys)
		}
	})

	t.Run("NoJSON", func(t *testing.T) {
		if _, err := parseSensitiveKeys("I could not find any keys."); err == nil {
			t.Error("expected error for reply without JSON")
		}
	})
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("", "password: x")
	if !strings.Contains(prompt, "password: x") || !strings.Contains(prompt, "sensitive_keys") {
		t.Error("default template must embed content and response schema")
	}

	custom := buildPrompt("find keys in: {content}", "abc")
	if custom != "find keys in: abc" {
		t.Errorf("custom template = %q", custom)
	}
}

func TestOllamaDetectSensitiveKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]any{
					"content": `{"sensitive_keys": ["spring.datasource.password"]}`,
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewOllama(config.DetectorConfig{
		Endpoint:   server.URL,
		Model:      "test",
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		RateLimit:  100,
	}, logger.Nop())

	keys, err := client.DetectSensitiveKeys(context.Background(), "spring:\n  datasource:\n    password: x")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"spring.datasource.password"}) {
		t.Errorf("keys = %v", keys)
	}
}

func TestOllamaFallsBackToGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			http.Error(w, "not supported", http.StatusNotFound)
		case "/api/generate":
			json.NewEncoder(w).Encode(map[string]any{
				"response": `{"sensitive_keys": ["jwt.secret"]}`,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewOllama(config.DetectorConfig{
		Endpoint:   server.URL,
		Model:      "test",
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		RateLimit:  100,
	}, logger.Nop())

	keys, err := client.DetectSensitiveKeys(context.Background(), "jwt:\n  secret: x")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"jwt.secret"}) {
		t.Errorf("keys = %v", keys)
	}
}

func TestOllamaAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "gemma3:27b"},
				{"name": "llama3:8b"},
			},
		})
	}))
	defer server.Close()

	newClient := func(model string) *Ollama {
		return NewOllama(config.DetectorConfig{
			Endpoint: server.URL,
			Model:    model,
			Timeout:  5 * time.Second,
		}, logger.Nop())
	}

	if !newClient("gemma3:27b").Available(context.Background()) {
		t.Error("installed model reported unavailable")
	}
	// A different tag of an installed model still counts.
	if !newClient("gemma3:9b").Available(context.Background()) {
		t.Error("model base-name match must count as available")
	}
	if newClient("mistral:7b").Available(context.Background()) {
		t.Error("missing model reported available")
	}

	models, err := newClient("gemma3:27b").ListModels(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 2 {
		t.Errorf("models = %v", models)
	}
}

func TestMockDetectSensitiveKeys(t *testing.T) {
	m := &Mock{}

	keys, err := m.DetectSensitiveKeys(context.Background(), "db.password=x\nuser=admin\napi_token: y")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"db.password", "api_token"}) {
		t.Errorf("keys = %v", keys)
	}

	fixed := &Mock{Keys: []string{"custom.key"}}
	keys, err = fixed.DetectSensitiveKeys(context.Background(), "anything")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"custom.key"}) {
		t.Errorf("keys = %v", keys)
	}
}
