package claude

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Transport performs the round trip to the messages API. The default
// implementation talks HTTP to api.anthropic.com; anything providing these
// two calls can stand in for it.
type Transport interface {
	// Complete issues one synchronous request and returns the full response.
	Complete(ctx context.Context, req Request) (*Response, error)
	// Stream issues the same request with streaming enabled and returns a
	// reader over the text fragments of the reply.
	Stream(ctx context.Context, req Request) (StreamReader, error)
}

// StreamReader yields text fragments until io.EOF. Close releases the
// underlying connection and must tolerate being called more than once.
type StreamReader interface {
	Recv() (string, error)
	Close() error
}

type httpTransport struct {
	config     *Config
	httpClient *http.Client
}

var _ Transport = &httpTransport{}

func newHTTPTransport(config *Config) *httpTransport {
	return &httpTransport{
		config: config,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     1 * time.Minute,
			},
		},
	}
}

func (t *httpTransport) do(ctx context.Context, body Request, stream bool) (*http.Response, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", t.config.baseURL, "v1/messages"), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("building POST request: %w", err)
	}

	req.Header.Set("x-api-key", t.config.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	rsp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if rsp.StatusCode != http.StatusOK {
		defer rsp.Body.Close()
		return nil, readAPIError(rsp)
	}

	return rsp, nil
}

func (t *httpTransport) Complete(ctx context.Context, req Request) (*Response, error) {
	rsp, err := t.do(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	out := Response{}
	if err := json.NewDecoder(rsp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}

	return &out, nil
}

func (t *httpTransport) Stream(ctx context.Context, req Request) (StreamReader, error) {
	req["stream"] = true

	rsp, err := t.do(ctx, req, true)
	if err != nil {
		return nil, err
	}

	return &sseReader{body: rsp.Body, scanner: bufio.NewScanner(rsp.Body)}, nil
}

func readAPIError(rsp *http.Response) error {
	errBody := errResponseBody{}
	if err := json.NewDecoder(rsp.Body).Decode(&errBody); err != nil {
		return fmt.Errorf("anthropic API returned status %d", rsp.StatusCode)
	}

	apiErr := errBody.Error
	apiErr.StatusCode = rsp.StatusCode
	return &apiErr
}

// sseReader walks the server-sent event lines of a streaming response and
// surfaces the text deltas.
type sseReader struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

var _ StreamReader = &sseReader{}

type sseData struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error APIError `json:"error"`
}

func (r *sseReader) Recv() (string, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 || parts[0] != "data" {
			continue
		}

		data := sseData{}
		if err := json.Unmarshal([]byte(strings.TrimSpace(parts[1])), &data); err != nil {
			return "", fmt.Errorf("decoding stream event: %w", err)
		}

		switch data.Type {
		case "content_block_delta":
			return data.Delta.Text, nil
		case "message_stop":
			return "", io.EOF
		case "error":
			apiErr := data.Error
			return "", &apiErr
		}
	}

	if err := r.scanner.Err(); err != nil {
		return "", err
	}

	// Connection ended without a message_stop event.
	return "", io.EOF
}

func (r *sseReader) Close() error {
	return r.body.Close()
}
