// Package ollama is a minimal client for the Ollama HTTP API, used by the
// lyrics generator and the co-writer. Responses are requested unstreamed.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/secrethelper/secrethelper/envconfig"
)

type Client struct {
	base url.URL
	http *http.Client
}

func NewClient(hosts ...string) *Client {
	host := envconfig.OllamaHost
	if len(hosts) > 0 && hosts[0] != "" {
		host = hosts[0]
	}
	host = strings.TrimPrefix(host, "http://")

	return &Client{
		base: url.URL{Scheme: "http", Host: host},
		http: &http.Client{Timeout: 120 * time.Second},
	}
}

type Options struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
	NumCtx      int     `json:"num_ctx,omitempty"`
}

type GenerateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	System  string   `json:"system,omitempty"`
	Format  string   `json:"format,omitempty"`
	Stream  bool     `json:"stream"`
	Options *Options `json:"options,omitempty"`
}

type GenerateResponse struct {
	Response string `json:"response"`
}

type TagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	var body io.Reader
	if reqData != nil {
		bts, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		body = bytes.NewReader(bts)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("ollama: %s %s: status %d: %s", method, path, response.StatusCode, bytes.TrimSpace(respBody))
	}

	if respData != nil {
		return json.Unmarshal(respBody, respData)
	}
	return nil
}

// Generate runs a single unstreamed completion and returns the trimmed text.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (string, error) {
	req.Stream = false

	var resp GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", req, &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Response), nil
}

// Tags lists the models the Ollama server has available.
func (c *Client) Tags(ctx context.Context) (*TagsResponse, error) {
	var resp TagsResponse
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status reports whether the server is reachable and whether the configured
// model is present, with an operator-facing message, in that order.
func (c *Client) Status(ctx context.Context, model string) (online, modelReady bool, message string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tags, err := c.Tags(ctx)
	if err != nil {
		return false, false, "Ollama offline — run: ollama serve"
	}

	base, _, _ := strings.Cut(model, ":")
	for _, m := range tags.Models {
		if strings.Contains(m.Name, base) {
			return true, true, fmt.Sprintf("Ollama OK — %s ready", model)
		}
	}
	return true, false, fmt.Sprintf("Ollama running but model not found — run: ollama pull %s", model)
}
