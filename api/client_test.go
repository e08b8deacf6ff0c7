package api

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

func TestGenerateStreamsProgress(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Prompt != "a happy song" {
			t.Errorf("Prompt = %q", req.Prompt)
		}

		enc := json.NewEncoder(w)
		enc.Encode(ProgressResponse{Status: "crafting lyrics"})
		enc.Encode(ProgressResponse{Status: "generating beat", Progress: 20})
		enc.Encode(ProgressResponse{Status: "done", Done: true, Song: &Song{Path: "output/song_1.wav"}})
	})

	var events []ProgressResponse
	err := c.Generate(context.Background(), &GenerateRequest{Prompt: "a happy song"}, func(p ProgressResponse) error {
		events = append(events, p)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	if !events[2].Done || events[2].Song == nil || events[2].Song.Path != "output/song_1.wav" {
		t.Errorf("final event = %+v", events[2])
	}
}

func TestGenerateErrorPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"prompt is required"}`))
	})

	err := c.Generate(context.Background(), &GenerateRequest{}, func(ProgressResponse) error { return nil })
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr Error
	if !errorsAs(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Message != "prompt is required" || apiErr.Code != http.StatusBadRequest {
		t.Errorf("error = %+v", apiErr)
	}
}

func TestGenerateMidStreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		enc.Encode(ProgressResponse{Status: "generating beat", Progress: 20})
		enc.Encode(map[string]string{"error": "music synthesis: musicgen checkpoint missing"})
	})

	var events []ProgressResponse
	err := c.Generate(context.Background(), &GenerateRequest{Prompt: "a happy song"}, func(p ProgressResponse) error {
		events = append(events, p)
		return nil
	})

	var apiErr Error
	if !errorsAs(err, &apiErr) {
		t.Fatalf("error = %v, want api.Error", err)
	}
	if apiErr.Message != "music synthesis: musicgen checkpoint missing" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if len(events) != 1 {
		t.Errorf("events = %d, want 1 before the failure", len(events))
	}
}

func TestHelper(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/helper" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(SongDraft{Song: DraftSong{Title: "Night Signal", BPM: 120}})
	})

	draft, err := c.Helper(context.Background(), &HelperRequest{Message: "write me a synthwave song"})
	if err != nil {
		t.Fatal(err)
	}
	if draft.Song.Title != "Night Signal" {
		t.Errorf("Title = %q", draft.Song.Title)
	}
}

func TestHistoryAndClear(t *testing.T) {
	var cleared bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(HistoryResponse{Entries: []HistoryEntry{{ID: "1", Prompt: "x"}}})
		case http.MethodDelete:
			cleared = true
			w.WriteHeader(http.StatusOK)
		}
	})

	resp, err := c.History(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Entries) != 1 {
		t.Errorf("entries = %d", len(resp.Entries))
	}

	if err := c.ClearHistory(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !cleared {
		t.Error("DELETE /api/history not called")
	}
}

func TestHeartbeat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %q", r.Method)
		}
	})

	if err := c.Heartbeat(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func errorsAs(err error, target *Error) bool {
	e, ok := err.(Error)
	if ok {
		*target = e
	}
	return ok
}
