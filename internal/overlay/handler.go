package overlay

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shelfsafe/internal/normalize"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:slug", h.getBySlug) // GET /ingredients/:slug
}

func (h *Handler) getBySlug(c *gin.Context) {
	slug := normalize.Slugify(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slug"})
		return
	}

	rec, err := h.Repo.Lookup(c.Request.Context(), slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
