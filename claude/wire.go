package claude

import "fmt"

// Wire types (i.e. types that go across a boundary)
// Whatever we need to send a request to the messages API and read its reply

// Message is one turn of a conversation. The role is passed through to the
// API as-is ("user" or "assistant").
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the JSON body of one call to the messages API. It stays an open
// map so extra options can be merged over the named parameters.
type Request map[string]any

type ContentBlock struct {
	Type string `json:"type"` // text | image
	Text string `json:"text"`
}

type Response struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// APIError is the error body the API returns on a non-200 status or inside a
// stream.
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anthropic API error (status %d): %s: %s", e.StatusCode, e.Type, e.Message)
}

type errResponseBody struct {
	Type  string   `json:"type"`
	Error APIError `json:"error"`
}
