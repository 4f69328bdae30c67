package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func pairSchema() *Schema {
	return &Schema{
		Name:        "test-pair",
		Description: "A prompt and its answer",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"answer":   map[string]any{"type": "string"},
			},
			"required":             []any{"question", "answer"},
			"additionalProperties": false,
		},
	}
}

func userRequest(schema *Schema) Request {
	return Request{
		System:    "You write quiz questions.",
		Messages:  []Message{{Role: RoleUser, Content: "One question please."}},
		Schema:    schema,
		MaxTokens: 256,
	}
}

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}
}

func anthropicReply(text, stop string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": text}},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stop,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func apiErrorHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "api_error", "message": "nope", "code": status},
		})
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	var body string
	handler := func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		anthropicReply(`{"question":"What is a plot?","answer":"The events of a story"}`, "end_turn")(w, r)
	}
	p := newTestAnthropicProvider(t, handler)

	resp, err := p.Generate(context.Background(), userRequest(pairSchema()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.Total() != 80 {
		t.Errorf("total tokens = %d, want 80", resp.Usage.Total())
	}
	if resp.StopReason != StopEnd {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
	if !strings.Contains(body, "You write quiz questions.") {
		t.Error("system prompt not sent")
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{"rate limit", apiErrorHandler(http.StatusTooManyRequests), func(err error) bool {
			var rl *RateLimitError
			return errors.As(err, &rl)
		}},
		{"server error", apiErrorHandler(http.StatusInternalServerError), func(err error) bool {
			var u *UnavailableError
			return errors.As(err, &u)
		}},
		{"schema mismatch", anthropicReply(`{"question":"q"}`, "end_turn"), func(err error) bool {
			var inv *InvalidResponseError
			return errors.As(err, &inv)
		}},
		{"truncated", anthropicReply(`{"question":"q","ans`, "max_tokens"), func(err error) bool {
			var tr *TruncatedError
			return errors.As(err, &tr)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, tt.handler)
			_, err := p.Generate(context.Background(), userRequest(pairSchema()))
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error: %T (%v)", err, err)
			}
		})
	}
}

func newTestOpenAIProvider(t *testing.T, name string, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(name, ProviderConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func openAIReply(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var got map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		openAIReply(`{"question":"Which tag makes a link?","answer":"<a>"}`, "stop")(w, r)
	}
	p := newTestOpenAIProvider(t, ProviderOpenAI, handler)

	resp, err := p.Generate(context.Background(), userRequest(pairSchema()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	rf, ok := got["response_format"].(map[string]any)
	if !ok || rf["type"] != "json_schema" {
		t.Errorf("response_format = %v", got["response_format"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("expected system + user messages, got %d", len(msgs))
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	rl := newTestOpenAIProvider(t, ProviderOpenRouter, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "slow down", "type": "rate_limit", "code": "rate_limit"},
		})
	})
	_, err := rl.Generate(context.Background(), userRequest(nil))
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("expected RateLimitError, got %T (%v)", err, err)
	}
	if rl.Name() != ProviderOpenRouter {
		t.Errorf("name = %q", rl.Name())
	}

	empty := newTestOpenAIProvider(t, ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "object": "chat.completion", "choices": []any{}})
	})
	_, err = empty.Generate(context.Background(), userRequest(nil))
	var inv *InvalidResponseError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidResponseError, got %T (%v)", err, err)
	}

	long := newTestOpenAIProvider(t, ProviderOpenAI, openAIReply(`{"question":"`, "length"))
	_, err = long.Generate(context.Background(), userRequest(pairSchema()))
	var tr *TruncatedError
	if !errors.As(err, &tr) {
		t.Fatalf("expected TruncatedError, got %T (%v)", err, err)
	}
}

func TestModelAliases(t *testing.T) {
	tests := []struct {
		aliases map[string]string
		in      string
		want    string
	}{
		{anthropicModels, "claude-haiku", "claude-haiku-4-5-20251001"},
		{anthropicModels, "claude-opus-custom", "claude-opus-custom"},
		{geminiModels, "gemini-flash", "gemini-2.0-flash"},
		{geminiModels, "gemini-2.5-pro", "gemini-2.5-pro"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.in, tt.aliases); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "minLength": 1},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 2,
				"maxItems": float64(5),
				"items": map[string]any{
					"type":     "object",
					"required": []string{"question"},
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"level":    map[string]any{"type": "string", "enum": []any{"easy", "hard"}},
					},
				},
			},
		},
		"required": []any{"title", "questions"},
	}

	s := geminiSchema(def)
	if s.Type != "OBJECT" || len(s.Required) != 2 {
		t.Fatalf("root = %+v", s)
	}
	qs := s.Properties["questions"]
	if qs.Type != "ARRAY" || qs.MinItems == nil || *qs.MinItems != 2 || qs.MaxItems == nil || *qs.MaxItems != 5 {
		t.Fatalf("questions = %+v", qs)
	}
	item := qs.Items
	if item.Type != "OBJECT" || len(item.Required) != 1 {
		t.Fatalf("item = %+v", item)
	}
	if len(item.Properties["level"].Enum) != 2 {
		t.Errorf("enum = %v", item.Properties["level"].Enum)
	}
	if ml := s.Properties["title"].MinLength; ml == nil || *ml != 1 {
		t.Errorf("minLength = %v", ml)
	}
}
