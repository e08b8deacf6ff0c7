package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secrethelper/secrethelper/api"
	"github.com/secrethelper/secrethelper/audio"
	"github.com/secrethelper/secrethelper/helper"
	"github.com/secrethelper/secrethelper/history"
	"github.com/secrethelper/secrethelper/ollama"
	"github.com/secrethelper/secrethelper/song"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubLyricist struct{}

func (stubLyricist) Generate(context.Context, string, string, string) string {
	return "[Verse 1]\nstub lines"
}

type stubSynth struct{}

func (stubSynth) Music(context.Context, string, time.Duration, string) (*audio.Clip, error) {
	return audio.Silence(1, 32000), nil
}

func (stubSynth) Vocals(context.Context, string, string) (*audio.Clip, error) {
	return audio.Silence(1, 24000), nil
}

type failingSynth struct {
	stubSynth
}

func (failingSynth) Music(context.Context, string, time.Duration, string) (*audio.Clip, error) {
	return nil, errors.New("musicgen checkpoint missing")
}

type stubCompleter struct {
	response string
}

func (s stubCompleter) Generate(context.Context, *ollama.GenerateRequest) (string, error) {
	return s.response, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	store := history.NewStoreAt(filepath.Join(t.TempDir(), "history.json"), 10)
	engine := song.NewEngine(stubLyricist{}, stubSynth{}, store)
	engine.OutputDir = t.TempDir()

	return &Server{
		Engine:  engine,
		Helper:  &helper.Generator{Model: "test", Completer: stubCompleter{response: `{"assistant_message": "hi", "song": {"title": "T", "genre": "pop"}}`}},
		History: store,
	}
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	s.GenerateRoutes().ServeHTTP(w, req)
	return w
}

func TestGenerateHandlerStreams(t *testing.T) {
	srv := httptest.NewServer(testServer(t).GenerateRoutes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/generate", "application/json",
		bytes.NewReader([]byte(`{"prompt": "happy pop song"}`)))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))

	var events []api.ProgressResponse
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		var p api.ProgressResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &p))
		events = append(events, p)
	}

	require.NotEmpty(t, events)
	final := events[len(events)-1]
	assert.True(t, final.Done)
	require.NotNil(t, final.Song)
	assert.Equal(t, "pop", final.Song.Genre)
	assert.FileExists(t, final.Song.Path)
}

func TestGenerateHandlerStreamsEngineError(t *testing.T) {
	s := testServer(t)
	s.Engine = song.NewEngine(stubLyricist{}, failingSynth{}, s.History)
	s.Engine.OutputDir = t.TempDir()

	srv := httptest.NewServer(s.GenerateRoutes())
	defer srv.Close()

	client := api.NewClient(strings.TrimPrefix(srv.URL, "http://"))
	err := client.Generate(context.Background(), &api.GenerateRequest{Prompt: "happy pop song"},
		func(api.ProgressResponse) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "musicgen checkpoint missing")
}

func TestGenerateHandlerRequiresPrompt(t *testing.T) {
	w := doRequest(t, testServer(t), http.MethodPost, "/api/generate", api.GenerateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "prompt is required")
}

func TestHelperHandler(t *testing.T) {
	s := testServer(t)
	w := doRequest(t, s, http.MethodPost, "/api/helper", api.HelperRequest{Message: "write me a hook"})

	require.Equal(t, http.StatusOK, w.Code)
	var draft api.SongDraft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	assert.Equal(t, "T", draft.Song.Title)
	assert.Equal(t, "hi", draft.AssistantMessage)
}

func TestHelperHandlerRequiresMessage(t *testing.T) {
	w := doRequest(t, testServer(t), http.MethodPost, "/api/helper", api.HelperRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIHandler(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"response": "pong", "done": true})
	}))
	defer backend.Close()

	s := testServer(t)
	s.Ollama = ollama.NewClient(backend.URL)

	w := doRequest(t, s, http.MethodPost, "/api/ai", api.AIRequest{Prompt: "ping"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.AIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pong", resp.Response)
}

func TestAIHandlerRequiresPrompt(t *testing.T) {
	w := doRequest(t, testServer(t), http.MethodPost, "/api/ai", api.AIRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryRoundTrip(t *testing.T) {
	s := testServer(t)
	_, err := s.History.Add(api.HistoryEntry{Prompt: "first song", Genre: "pop"})
	require.NoError(t, err)

	w := doRequest(t, s, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "first song", resp.Entries[0].Prompt)

	w = doRequest(t, s, http.MethodDelete, "/api/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/history", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Entries)
}

func TestVersionHandler(t *testing.T) {
	w := doRequest(t, testServer(t), http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "version")
}

func TestServeStopsWithContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestLiveness(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		w := doRequest(t, testServer(t), method, "/", nil)
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}
