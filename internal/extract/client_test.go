package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryDelayServerHintWins(t *testing.T) {
	assert.Equal(t, 3*time.Second, retryDelay(0, "3"))
	assert.Equal(t, time.Duration(0), retryDelay(5, "0"))
}

func TestRetryDelayBackoffBounds(t *testing.T) {
	for attempt := 0; attempt < 3; attempt++ {
		base := backoffBase * time.Duration(1<<uint(attempt))
		for i := 0; i < 20; i++ {
			d := retryDelay(attempt, "")
			assert.GreaterOrEqual(t, d, base)
			assert.Less(t, d, base+time.Duration(backoffJitterMs)*time.Millisecond)
		}
	}
}

func TestRetryDelayIgnoresBadHint(t *testing.T) {
	d := retryDelay(0, "soon")
	assert.GreaterOrEqual(t, d, backoffBase)
}

func modelResponse(text string) string {
	body := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	raw, _ := json.Marshal(body)
	return string(raw)
}

func newTestClient(url string) *Client {
	return NewClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, nil)
}

func TestExtractHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)
		assert.InDelta(t, 0.2, req.GenerationConfig.Temperature, 0.001)
		assert.Equal(t, 2048, req.GenerationConfig.MaxOutputTokens)

		w.Write([]byte(modelResponse(`{"ingredients":[{"name":"Sodium Hypochlorite","risk":"high","notes":"oxidizer"},{"name":"","risk":"safe"},{"name":"Water","risk":"nonsense"}],"summary":"two found"}`)))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.Extract(context.Background(), Input{FreeText: "label text"})
	require.NoError(t, err)

	// hardening: nameless entry dropped, risk normalized, slug recomputed
	require.Len(t, out.Ingredients, 2)
	assert.Equal(t, "sodium-hypochlorite", out.Ingredients[0].Slug)
	assert.Equal(t, "avoid", out.Ingredients[0].Risk)
	assert.Equal(t, "safe", out.Ingredients[1].Risk)
	assert.Equal(t, "two found", out.Summary)
}

func TestExtract429RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(modelResponse(`{"ingredients":[],"summary":"after retry"}`)))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.Extract(context.Background(), Input{FreeText: "x"})
	require.NoError(t, err)
	assert.Equal(t, "after retry", out.Summary)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestExtract429ExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Extract(context.Background(), Input{FreeText: "x"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBusy))
	// initial call + 2 retries
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestExtractServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Extract(context.Background(), Input{FreeText: "x"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnavailable))
	assert.NotContains(t, err.Error(), "internal")
}

func TestExtractClientErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad field", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Extract(context.Background(), Input{FreeText: "x"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUpstream))
	assert.Contains(t, err.Error(), "400")
}

func TestExtractFencedOutputRepaired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelResponse("```json\n{\"ingredients\":[],\"summary\":\"fenced\"}\n```")))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.Extract(context.Background(), Input{FreeText: "x"})
	require.NoError(t, err)
	assert.Equal(t, "fenced", out.Summary)
}

func TestExtractGarbageOutputIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelResponse("no json here at all")))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Extract(context.Background(), Input{FreeText: "x"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMalformed))
}

func TestExtractNoAPIKey(t *testing.T) {
	c := NewClient(ClientConfig{BaseURL: "http://unused"}, nil)
	_, err := c.Extract(context.Background(), Input{FreeText: "x"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnavailable))
}

func TestExtractImageInputSendsInlineData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents[0].Parts, 2)
		assert.NotEmpty(t, req.Contents[0].Parts[0].Text)
		require.NotNil(t, req.Contents[0].Parts[1].InlineData)
		assert.Equal(t, "image/jpeg", req.Contents[0].Parts[1].InlineData.MIMEType)

		w.Write([]byte(modelResponse(`{"ingredients":[],"summary":"from image"}`)))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.Extract(context.Background(), Input{Image: &Image{MIMEType: "image/jpeg", Data: "aGVsbG8="}})
	require.NoError(t, err)
	assert.Equal(t, "from image", out.Summary)
}

func TestAnswerReturnsPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelResponse("Rinse well and ventilate.")))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	answer, err := c.Answer(context.Background(), "how do I use this safely?")
	require.NoError(t, err)
	assert.Equal(t, "Rinse well and ventilate.", answer)
}
