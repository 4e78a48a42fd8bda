package scan

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shelfsafe/internal/extract"
	"shelfsafe/internal/rules"
	"shelfsafe/internal/swap"
	"shelfsafe/pkg/models"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/scan", h.scan)
	r.POST("/score", h.score)
	r.POST("/ask", h.ask)
}

type imagePair struct {
	Front *extract.Image `json:"front"`
	Back  *extract.Image `json:"back"`
}

type scanReq struct {
	Text        string     `json:"text"`
	Ingredients []string   `json:"ingredients"`
	Images      *imagePair `json:"images"`
}

func (h *Handler) scan(c *gin.Context) {
	var req scanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var (
		result *models.ScanResult
		err    error
	)
	if req.Images != nil {
		result, err = h.Service.AnalyzeImages(c.Request.Context(), req.Images.Front, req.Images.Back)
	} else {
		result, err = h.Service.CreateScanResult(c.Request.Context(), Input{
			Text:            req.Text,
			IngredientNames: req.Ingredients,
		})
	}

	if err != nil {
		if errors.Is(err, ErrNoInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text, ingredients, or images required"})
			return
		}
		// only the image path can still fail here (both faces down)
		c.JSON(statusForExtractError(err), gin.H{"error": err.Error()})
		return
	}

	result.ScanID = uuid.NewString()
	c.JSON(http.StatusOK, result)
}

type scoreReq struct {
	Product     models.Product  `json:"product"`
	Preferences *preferencesReq `json:"preferences"`
}

// preferencesReq uses pointers so omitted keys fall back to defaults
// instead of false.
type preferencesReq struct {
	FragranceFree *bool `json:"fragranceFree"`
	BleachFree    *bool `json:"bleachFree"`
	AmmoniaFree   *bool `json:"ammoniaFree"`
	AvoidQuats    *bool `json:"avoidQuats"`
	SensitiveMode *bool `json:"sensitiveMode"`
}

func (p *preferencesReq) resolve() models.Preferences {
	prefs := models.DefaultPreferences()
	if p == nil {
		return prefs
	}
	if p.FragranceFree != nil {
		prefs.FragranceFree = *p.FragranceFree
	}
	if p.BleachFree != nil {
		prefs.BleachFree = *p.BleachFree
	}
	if p.AmmoniaFree != nil {
		prefs.AmmoniaFree = *p.AmmoniaFree
	}
	if p.AvoidQuats != nil {
		prefs.AvoidQuats = *p.AvoidQuats
	}
	if p.SensitiveMode != nil {
		prefs.SensitiveMode = *p.SensitiveMode
	}
	return prefs
}

// score runs the deterministic rule engine plus swap suggestions. Fully
// local: no model, no store, never fails past input validation.
func (h *Handler) score(c *gin.Context) {
	var req scoreReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	prefs := req.Preferences.resolve()
	result := rules.Score(req.Product, prefs)
	swaps := swap.Suggest(result.Flags, prefs)

	c.JSON(http.StatusOK, gin.H{
		"flags":        result.Flags,
		"handlingTips": result.HandlingTips,
		"overall":      result.Overall,
		"swaps":        swaps,
	})
}

type askReq struct {
	Question string             `json:"question"`
	Scan     *models.ScanResult `json:"scan"`
}

func (h *Handler) ask(c *gin.Context) {
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Question == "" || req.Scan == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question and scan required"})
		return
	}

	result, err := h.Service.AnswerQuestion(c.Request.Context(), req.Question, req.Scan)
	if err != nil {
		c.JSON(statusForExtractError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func statusForExtractError(err error) int {
	switch {
	case extract.IsKind(err, extract.KindBusy):
		return http.StatusTooManyRequests
	case extract.IsKind(err, extract.KindUnavailable), extract.IsKind(err, extract.KindMalformed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
