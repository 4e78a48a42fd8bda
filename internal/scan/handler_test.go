package scan

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfsafe/internal/extract"
)

func newTestRouter(ex Extractor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(newTestService(ex, &mockOverlay{})).RegisterRoutes(router)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScanEndpointText(t *testing.T) {
	ex := &mockExtractor{extraction: &extract.Extraction{
		Ingredients: []extract.Ingredient{{Name: "Bleach", Slug: "bleach", Risk: "avoid"}},
		Summary:     "ok",
	}}
	router := newTestRouter(ex)

	w := postJSON(t, router, "/scan", map[string]string{"text": "bleach cleaner"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ScanID      string `json:"scan_id"`
		OverallRisk string `json:"overallRisk"`
		Summary     string `json:"summary"`
		Ingredients []struct {
			Slug string `json:"slug"`
		} `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ScanID)
	assert.Equal(t, "avoid", resp.OverallRisk)
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, "bleach", resp.Ingredients[0].Slug)
}

func TestScanEndpointEmptyInputIs400(t *testing.T) {
	router := newTestRouter(&mockExtractor{})
	w := postJSON(t, router, "/scan", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanEndpointInvalidJSONIs400(t *testing.T) {
	router := newTestRouter(&mockExtractor{})
	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreEndpointDefaultsFragranceFree(t *testing.T) {
	router := newTestRouter(&mockExtractor{})

	// no preferences supplied: fragranceFree defaults to true
	w := postJSON(t, router, "/score", map[string]interface{}{
		"product": map[string]string{"raw_text": "contains fragrance"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Flags []struct {
			ID string `json:"id"`
		} `json:"flags"`
		Overall string `json:"overall"`
		Swaps   []struct {
			Type string `json:"type"`
		} `json:"swaps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Flags, 1)
	assert.Equal(t, "contains_fragrance", resp.Flags[0].ID)
	// fragrance swap + baseline
	require.Len(t, resp.Swaps, 2)
	assert.Equal(t, "baseline", resp.Swaps[1].Type)
}

func TestScoreEndpointExplicitGateOff(t *testing.T) {
	router := newTestRouter(&mockExtractor{})

	w := postJSON(t, router, "/score", map[string]interface{}{
		"product":     map[string]string{"raw_text": "contains fragrance"},
		"preferences": map[string]bool{"fragranceFree": false},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Flags   []interface{} `json:"flags"`
		Overall string        `json:"overall"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Flags)
	assert.Equal(t, "keep", resp.Overall)
}

func TestAskEndpoint(t *testing.T) {
	ex := &mockExtractor{answer: "Ventilate the room."}
	router := newTestRouter(ex)

	w := postJSON(t, router, "/ask", map[string]interface{}{
		"question": "how should I use it?",
		"scan": map[string]interface{}{
			"ingredients": []map[string]interface{}{
				{"name": "Bleach", "slug": "bleach", "risk": "avoid",
					"sources": []map[string]string{{"title": "CDC chlorine guidance"}}},
			},
			"overallRisk": "avoid",
			"summary":     "s",
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Answer  string   `json:"answer"`
		Sources []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ventilate the room.", resp.Answer)
	assert.Equal(t, []string{"CDC chlorine guidance"}, resp.Sources)
}

func TestAskEndpointMissingFieldsIs400(t *testing.T) {
	router := newTestRouter(&mockExtractor{})
	w := postJSON(t, router, "/ask", map[string]string{"question": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskEndpointModelBusyIs429(t *testing.T) {
	ex := &mockExtractor{answerErr: &extract.ServiceError{Kind: extract.KindBusy, Message: "busy"}}
	router := newTestRouter(ex)

	w := postJSON(t, router, "/ask", map[string]interface{}{
		"question": "q",
		"scan":     map[string]interface{}{"ingredients": []interface{}{}, "overallRisk": "safe", "summary": ""},
	})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
