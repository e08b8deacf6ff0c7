package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(strings.TrimPrefix(srv.URL, "http://"))
}

func TestGenerate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Stream {
			t.Error("Stream should be forced off")
		}
		if req.Model != "qwen2.5:3b" {
			t.Errorf("Model = %q", req.Model)
		}

		json.NewEncoder(w).Encode(GenerateResponse{Response: "  hello\n"})
	})

	got, err := c.Generate(context.Background(), &GenerateRequest{Model: "qwen2.5:3b", Prompt: "hi", Stream: true})
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("Generate = %q, want trimmed hello", got)
	}
}

func TestGenerateServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	if _, err := c.Generate(context.Background(), &GenerateRequest{Model: "m", Prompt: "p"}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestStatus(t *testing.T) {
	t.Run("model present", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"models":[{"name":"qwen2.5:3b-instruct"},{"name":"llama3:8b"}]}`))
		})
		online, ready, msg := c.Status(context.Background(), "qwen2.5:3b")
		if !online || !ready {
			t.Errorf("online/ready = %v/%v, want true/true (%s)", online, ready, msg)
		}
	})

	t.Run("model missing", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"models":[{"name":"llama3:8b"}]}`))
		})
		online, ready, msg := c.Status(context.Background(), "qwen2.5:3b")
		if !online || ready {
			t.Errorf("online/ready = %v/%v, want true/false", online, ready)
		}
		if !strings.Contains(msg, "ollama pull qwen2.5:3b") {
			t.Errorf("message = %q, want pull hint", msg)
		}
	})

	t.Run("offline", func(t *testing.T) {
		c := NewClient("127.0.0.1:1") // nothing listens here
		online, _, msg := c.Status(context.Background(), "qwen2.5:3b")
		if online {
			t.Error("online = true for unreachable server")
		}
		if !strings.Contains(msg, "ollama serve") {
			t.Errorf("message = %q, want serve hint", msg)
		}
	})
}
