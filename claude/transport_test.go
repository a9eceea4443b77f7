package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPTransportComplete(t *testing.T) {
	var gotBody map[string]any
	var gotHeader http.Header
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-sonnet-20241022",
			"content": [{"type": "text", "text": "pong"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 1, "output_tokens": 2}
		}`)
	}))
	defer server.Close()

	transport := newHTTPTransport(NewConfig(server.URL, "test-key"))

	rsp, err := transport.Complete(context.Background(), Request{"model": SONNET_3_5, "max_tokens": 16})
	require.NoError(t, err)
	require.Equal(t, "pong", rsp.Content[0].Text)
	require.Equal(t, "end_turn", rsp.StopReason)
	require.Equal(t, 2, rsp.Usage.OutputTokens)

	require.Equal(t, "/v1/messages", gotPath)
	require.Equal(t, "test-key", gotHeader.Get("x-api-key"))
	require.Equal(t, "2023-06-01", gotHeader.Get("anthropic-version"))
	require.Equal(t, "application/json", gotHeader.Get("Content-Type"))

	require.Equal(t, SONNET_3_5, gotBody["model"])
	require.Equal(t, float64(16), gotBody["max_tokens"])
	require.NotContains(t, gotBody, "stream")
}

func TestHTTPTransportAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`)
	}))
	defer server.Close()

	transport := newHTTPTransport(NewConfig(server.URL, "bad-key"))

	_, err := transport.Complete(context.Background(), Request{"model": SONNET_3_5})

	apiErr := &APIError{}
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "authentication_error", apiErr.Type)
	require.Equal(t, "invalid x-api-key", apiErr.Message)
}

func TestHTTPTransportStream(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\n")
		fmt.Fprint(w, `data: {"type": "message_start"}`+"\n\n")
		for _, text := range []string{"a", "b", "c"} {
			fmt.Fprint(w, "event: content_block_delta\n")
			fmt.Fprintf(w, `data: {"type": "content_block_delta", "index": 0, "delta": {"type": "text_delta", "text": %q}}`+"\n\n", text)
		}
		fmt.Fprint(w, "event: message_stop\n")
		fmt.Fprint(w, `data: {"type": "message_stop"}`+"\n\n")
	}))
	defer server.Close()

	transport := newHTTPTransport(NewConfig(server.URL, "test-key"))

	reader, err := transport.Stream(context.Background(), Request{"model": SONNET_3_5})
	require.NoError(t, err)
	defer reader.Close()

	var chunks []string
	for {
		chunk, err := reader.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}
	require.Equal(t, []string{"a", "b", "c"}, chunks)

	require.Equal(t, true, gotBody["stream"])
}

func TestHTTPTransportStreamErrorEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: content_block_delta\n")
		fmt.Fprint(w, `data: {"type": "content_block_delta", "index": 0, "delta": {"type": "text_delta", "text": "a"}}`+"\n\n")
		fmt.Fprint(w, "event: error\n")
		fmt.Fprint(w, `data: {"type": "error", "error": {"type": "overloaded_error", "message": "overloaded"}}`+"\n\n")
	}))
	defer server.Close()

	transport := newHTTPTransport(NewConfig(server.URL, "test-key"))

	reader, err := transport.Stream(context.Background(), Request{"model": SONNET_3_5})
	require.NoError(t, err)
	defer reader.Close()

	chunk, err := reader.Recv()
	require.NoError(t, err)
	require.Equal(t, "a", chunk)

	_, err = reader.Recv()
	apiErr := &APIError{}
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "overloaded_error", apiErr.Type)
}
