// Package claude is a thin client for the Anthropic messages API: one-shot
// chat, streaming chat, and chat over a caller-supplied history. The client
// keeps no conversation state between calls and never retries; callers
// needing resilience wrap it themselves.
package claude

import (
	"context"
	"errors"
	"fmt"
)

type Client struct {
	config    *Config
	transport Transport
}

// NewClient builds a client for api.anthropic.com. An empty apiKey falls back
// to the ANTHROPIC_API_KEY environment variable; a non-empty key is used
// as-is and the environment is never read.
func NewClient(apiKey string) (*Client, error) {
	config, err := resolveConfig(apiKey)
	if err != nil {
		return nil, err
	}

	return &Client{config: config, transport: newHTTPTransport(config)}, nil
}

// NewClientWithTransport is NewClient with a caller-supplied transport.
func NewClientWithTransport(apiKey string, transport Transport) (*Client, error) {
	config, err := resolveConfig(apiKey)
	if err != nil {
		return nil, err
	}

	return &Client{config: config, transport: transport}, nil
}

// ChatOptions are the per-call knobs shared by every chat method. A nil
// *ChatOptions (or the zero value) asks for the defaults. Extra is merged
// into the request after the named fields, so it can set parameters the
// struct doesn't name (top_k, stop_sequences, ...) and deliberately wins
// when it names the same key.
type ChatOptions struct {
	Model       string  // default DefaultModel
	System      string  // omitted when empty
	MaxTokens   int     // default 1024
	Temperature float64 // default 1.0; send an explicit 0 via Extra
	Extra       map[string]any
}

const defaultMaxTokens = 1024

func buildRequest(messages []Message, opts *ChatOptions) Request {
	if opts == nil {
		opts = &ChatOptions{}
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 1.0
	}

	req := Request{
		"model":       model,
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	if opts.System != "" {
		req["system"] = opts.System
	}

	for k, v := range opts.Extra {
		req[k] = v
	}

	return req
}

// Chat sends a single user message and returns the text of the reply.
func (c *Client) Chat(ctx context.Context, message string, opts *ChatOptions) (string, error) {
	return c.ChatWithHistory(ctx, []Message{{Role: "user", Content: message}}, opts)
}

// ChatWithHistory sends a full conversation. The turns are forwarded in
// order, exactly as given; the client synthesizes none of its own and keeps
// no history between calls.
func (c *Client) ChatWithHistory(ctx context.Context, messages []Message, opts *ChatOptions) (string, error) {
	rsp, err := c.transport.Complete(ctx, buildRequest(messages, opts))
	if err != nil {
		return "", fmt.Errorf("sending message: %w", err)
	}

	if len(rsp.Content) == 0 {
		return "", errors.New("response carried no content blocks")
	}

	return rsp.Content[0].Text, nil
}

// ChatStream sends a single user message and returns the reply as a stream
// of text fragments. The stream is finite and not restartable; issue a fresh
// call to stream again.
func (c *Client) ChatStream(ctx context.Context, message string, opts *ChatOptions) (*Stream, error) {
	messages := []Message{{Role: "user", Content: message}}

	reader, err := c.transport.Stream(ctx, buildRequest(messages, opts))
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}

	return newStream(reader), nil
}
