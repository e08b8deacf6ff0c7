package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/secrethelper/secrethelper/envconfig"
)

type Client struct {
	base url.URL
	http *http.Client
}

func NewClient(hosts ...string) *Client {
	host := envconfig.Host()
	if len(hosts) > 0 && hosts[0] != "" {
		host = hosts[0]
	}

	return &Client{
		base: url.URL{Scheme: "http", Host: host},
		http: http.DefaultClient,
	}
}

// ClientFromEnvironment returns a client for the host in SECRETHELPER_HOST.
func ClientFromEnvironment() *Client {
	return NewClient()
}

type options struct {
	requestBody  io.Reader
	responseFunc func(bts []byte) error
}

func withRequestBody(data any) (func(*options), error) {
	bts, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return func(opts *options) {
		opts.requestBody = bytes.NewReader(bts)
	}, nil
}

func withResponseFunc(fn func([]byte) error) func(*options) {
	return func(opts *options) {
		opts.responseFunc = fn
	}
}

func (c *Client) stream(ctx context.Context, method, path string, fns ...func(*options)) error {
	var opts options
	for _, fn := range fns {
		fn(&opts)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), opts.requestBody)
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

	if response.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(response.Body)

		var apierr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &apierr); err == nil && apierr.Error != "" {
			return Error{Code: int32(response.StatusCode), Message: apierr.Error}
		}
		return Error{Code: int32(response.StatusCode), Message: strings.TrimSpace(string(body))}
	}

	if opts.responseFunc != nil {
		scanner := bufio.NewScanner(response.Body)
		// generated lyrics can make progress lines long
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			// the server reports mid-stream failures as a final error line
			var apierr struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(line, &apierr); err == nil && apierr.Error != "" {
				return Error{Code: int32(response.StatusCode), Message: apierr.Error}
			}

			if err := opts.responseFunc(line); err != nil {
				return err
			}
		}
		return scanner.Err()
	}

	return nil
}

type GenerateProgressFunc func(ProgressResponse) error

// Generate streams song generation progress, calling fn for every event.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest, fn GenerateProgressFunc) error {
	body, err := withRequestBody(req)
	if err != nil {
		return err
	}

	return c.stream(ctx, http.MethodPost, "/api/generate",
		body,
		withResponseFunc(func(bts []byte) error {
			var resp ProgressResponse
			if err := json.Unmarshal(bts, &resp); err != nil {
				return err
			}

			return fn(resp)
		}),
	)
}

// Helper runs one co-writer turn.
func (c *Client) Helper(ctx context.Context, req *HelperRequest) (*SongDraft, error) {
	var draft SongDraft
	if err := c.doJSON(ctx, http.MethodPost, "/api/helper", req, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// History fetches the generation history, newest first.
func (c *Client) History(ctx context.Context) (*HistoryResponse, error) {
	var resp HistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/history", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearHistory deletes the generation history.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/history", nil, nil)
}

// Status reports backend health as seen by the server.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Heartbeat reports whether the server is up.
func (c *Client) Heartbeat(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.String(), nil)
	if err != nil {
		return err
	}

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("could not connect to the secrethelper server at %s: %w", c.base.Host, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return Error{Code: int32(response.StatusCode)}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqData, respData any) error {
	fns := []func(*options){}
	if reqData != nil {
		body, err := withRequestBody(reqData)
		if err != nil {
			return err
		}
		fns = append(fns, body)
	}

	var collected []byte
	fns = append(fns, withResponseFunc(func(bts []byte) error {
		collected = append(collected, bts...)
		return nil
	}))

	if err := c.stream(ctx, method, path, fns...); err != nil {
		return err
	}

	if respData != nil && len(collected) > 0 {
		return json.Unmarshal(collected, respData)
	}
	return nil
}
