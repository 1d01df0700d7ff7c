package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewEmbeddingService(Config{BaseURL: server.URL, Model: "test-model", Dimensions: 1})
}

// echoHandler answers each embedding request with a vector derived
// from the prompt's trailing number, so order mixups are visible.
func echoHandler(t *testing.T, requests *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)

		n, err := strconv.Atoi(strings.TrimPrefix(req.Prompt, "passage "))
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{float64(n)}})
	}
}

func TestEmbed(t *testing.T) {
	var requests atomic.Int32
	svc := newTestService(t, echoHandler(t, &requests))

	vec, err := svc.Embed(context.Background(), "passage 7")

	require.NoError(t, err)
	assert.Equal(t, []float32{7}, vec)
	assert.Equal(t, int32(1), requests.Load())
}

func TestEmbed_ErrorStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	})

	_, err := svc.Embed(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestEmbedBatch_PreservesInputOrder(t *testing.T) {
	var requests atomic.Int32
	svc := newTestService(t, echoHandler(t, &requests))

	texts := make([]string, 10)
	for i := range texts {
		texts[i] = fmt.Sprintf("passage %d", i)
	}

	vecs, err := svc.EmbedBatch(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, vecs, len(texts))
	// The worker pool must not reorder results.
	for i, vec := range vecs {
		assert.Equal(t, []float32{float32(i)}, vec)
	}
	assert.Equal(t, int32(len(texts)), requests.Load())
}

func TestEmbedBatch_FailureYieldsNoPartialResult(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// The fifth passage breaks; the batch must fail as a whole.
		if req.Prompt == "passage 4" {
			http.Error(w, `{"error":"embedding failed"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{1}})
	})

	texts := make([]string, 10)
	for i := range texts {
		texts[i] = fmt.Sprintf("passage %d", i)
	}

	vecs, err := svc.EmbedBatch(context.Background(), texts)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed text 4")
	assert.Nil(t, vecs)
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc := newTestService(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for an empty batch")
	})

	vecs, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedBatch_CancelledContext(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{1}})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.EmbedBatch(ctx, []string{"passage 0", "passage 1"})

	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestDefaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
}
