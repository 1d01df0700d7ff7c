package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewLLMService(LLMConfig{BaseURL: server.URL, Model: "test-model"})
}

func TestGenerate(t *testing.T) {
	var gotReq generateRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "hello there", Done: true})
	})

	got, err := svc.Generate(context.Background(), "say hello", driven.GenerateOptions{
		Temperature: 0.2,
		MaxTokens:   100,
	})

	require.NoError(t, err)
	assert.Equal(t, "hello there", got)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, "say hello", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
	require.NotNil(t, gotReq.Options)
	assert.Equal(t, 100, gotReq.Options.NumPredict)
	assert.InDelta(t, 0.2, gotReq.Options.Temperature, 1e-9)
}

func TestGenerate_ErrorStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	})

	_, err := svc.Generate(context.Background(), "anything", driven.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestGenerateStream(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		for _, frag := range []string{"The ", "answer ", "is 42."} {
			fmt.Fprintf(w, `{"response":%q,"done":false}`+"\n", frag)
		}
		fmt.Fprintln(w, `{"response":"","done":true}`)
	})

	stream, err := svc.GenerateStream(context.Background(), "question", driven.GenerateOptions{})
	require.NoError(t, err)

	var text string
	var done bool
	for tok := range stream {
		require.NoError(t, tok.Err)
		text += tok.Content
		done = tok.Done
	}

	assert.Equal(t, "The answer is 42.", text)
	assert.True(t, done)
}

func TestGenerateStream_TruncatedStreamStillEnds(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `{"response":"partial","done":false}`)
		// Connection ends without a done marker.
	})

	stream, err := svc.GenerateStream(context.Background(), "question", driven.GenerateOptions{})
	require.NoError(t, err)

	var text string
	var done bool
	for tok := range stream {
		require.NoError(t, tok.Err)
		text += tok.Content
		if tok.Done {
			done = true
		}
	}

	assert.Equal(t, "partial", text)
	assert.True(t, done)
}

func TestGenerateStream_MalformedChunk(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `{"response":"ok","done":false}`)
		fmt.Fprintln(w, `not json`)
	})

	stream, err := svc.GenerateStream(context.Background(), "question", driven.GenerateOptions{})
	require.NoError(t, err)

	var streamErr error
	for tok := range stream {
		if tok.Err != nil {
			streamErr = tok.Err
		}
	}

	require.Error(t, streamErr)
	assert.Contains(t, streamErr.Error(), "decode stream chunk")
}

func TestGenerateStream_ConsumerCancellation(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for i := 0; i < 1000; i++ {
			fmt.Fprintf(w, `{"response":"tok%d","done":false}`+"\n", i)
			flusher.Flush()
		}
		fmt.Fprintln(w, `{"response":"","done":true}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := svc.GenerateStream(ctx, "question", driven.GenerateOptions{})
	require.NoError(t, err)

	// Read one token, walk away. The producer goroutine must exit and
	// close the channel.
	<-stream
	cancel()
	for range stream {
	}
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	svc := NewLLMService(LLMConfig{BaseURL: "http://127.0.0.1:1"})
	assert.Error(t, svc.Ping(context.Background()))
}

func TestModelName(t *testing.T) {
	svc := NewLLMService(LLMConfig{})
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}
