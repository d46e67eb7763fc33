package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"sermon-studio/backend/internal/generation"
	"sermon-studio/backend/internal/middleware"
	"sermon-studio/backend/internal/model"
	"sermon-studio/backend/internal/presenter"
	"sermon-studio/backend/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"
)

// API holds the handlers for the generation routes.
type API struct {
	svc *generation.Service
}

// NewAPI creates the handler set around a generation service.
func NewAPI(svc *generation.Service) *API {
	return &API{svc: svc}
}

// RegisterRoutes mounts the generation routes on an /api group.
// generateLimiter guards the expensive generate route only.
func (a *API) RegisterRoutes(api *gin.RouterGroup, generateLimiter gin.HandlerFunc) {
	api.GET("/generations", a.HandleList)
	api.POST("/generations", a.HandleCreate)
	api.POST("/generations/generate", generateLimiter, a.HandleGenerate)
	api.PATCH("/generations/:id", a.HandleUpdate)
	api.DELETE("/generations/:id", a.HandleDelete)
	api.GET("/generations/:id/rendered", a.HandleRendered)
	api.GET("/stats", a.HandleStats)
}

// HandleList returns the caller's generations, newest first.
func (a *API) HandleList(c *gin.Context) {
	list, err := a.svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		a.writeError(c, err)
		return
	}
	if list == nil {
		list = []model.Generation{}
	}
	c.JSON(http.StatusOK, list)
}

// HandleGenerate runs the full pipeline: dispatch, normalize, persist.
func (a *API) HandleGenerate(c *gin.Context) {
	var req model.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: title and content_type are required",
			"code":  "INVALID_REQUEST",
		})
		return
	}
	normalizeRequest(&req)
	if msg := req.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "INVALID_REQUEST"})
		return
	}

	start := time.Now()
	g, err := a.svc.Generate(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		log.Printf("[PERF] Generation failed after %v", time.Since(start))
		a.writeError(c, err)
		return
	}

	log.Printf("[PERF] Generation completed in %v", time.Since(start))
	c.JSON(http.StatusCreated, g)
}

// HandleCreate persists manually authored content without dispatching.
func (a *API) HandleCreate(c *gin.Context) {
	var req model.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: title and content_type are required",
			"code":  "INVALID_REQUEST",
		})
		return
	}
	normalizeRequest(&req)
	if msg := req.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "INVALID_REQUEST"})
		return
	}
	if req.Content == nil || *req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "content is required when saving without generation",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	g, err := a.svc.CreateManual(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// HandleUpdate applies a partial edit to an owned record.
func (a *API) HandleUpdate(c *gin.Context) {
	var upd model.GenerationUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "INVALID_REQUEST"})
		return
	}
	if msg := upd.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "INVALID_REQUEST"})
		return
	}
	if upd.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "update carries no changes", "code": "INVALID_REQUEST"})
		return
	}
	normalizeUpdate(&upd)

	if err := a.svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), upd); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// HandleDelete removes an owned record permanently.
func (a *API) HandleDelete(c *gin.Context) {
	if err := a.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// HandleRendered returns the preview/body split of one record for display.
func (a *API) HandleRendered(c *gin.Context) {
	g, err := a.svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.Render(g))
}

// HandleStats returns the caller's dashboard counters.
func (a *API) HandleStats(c *gin.Context) {
	stats, err := a.svc.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// writeError maps pipeline errors onto HTTP responses. Generation failures
// and save failures carry distinct codes so the client can tell them apart.
func (a *API) writeError(c *gin.Context, err error) {
	var transportErr *generation.TransportError
	var emptyErr *generation.EmptyGenerationError
	var persistErr *generation.PersistenceError

	switch {
	case errors.Is(err, generation.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
			"code":  "NOT_AUTHENTICATED",
		})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Generation not found",
			"code":  "NOT_FOUND",
		})
	case errors.As(err, &transportErr):
		log.Printf("[WARN] Generation transport failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to generate content. Please try again.",
			"code":  "GENERATION_FAILED",
		})
	case errors.As(err, &emptyErr):
		log.Printf("[WARN] Generation returned no content: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to generate content. Please try again.",
			"code":  "EMPTY_GENERATION",
		})
	case errors.As(err, &persistErr):
		log.Printf("[WARN] Persistence failure op=%s: %v", persistErr.Op, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": persistenceMessage(persistErr.Op),
			"code":  persistenceCode(persistErr.Op),
		})
	default:
		log.Printf("[WARN] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal error. Please try again.",
			"code":  "INTERNAL_ERROR",
		})
	}
}

func persistenceMessage(op string) string {
	switch op {
	case "create":
		// The generated text is gone; the client cannot silently retry.
		return "Content was generated but could not be saved."
	case "update":
		return "Failed to update content."
	case "delete":
		return "Failed to delete generation."
	}
	return "Storage operation failed."
}

func persistenceCode(op string) string {
	switch op {
	case "create":
		return "SAVE_FAILED"
	case "update":
		return "UPDATE_FAILED"
	case "delete":
		return "DELETE_FAILED"
	}
	return "STORAGE_FAILED"
}

// normalizeRequest NFC-normalizes the free-text fields so lookalike code
// points do not slip through to the generation service.
func normalizeRequest(req *model.GenerationRequest) {
	req.Title = norm.NFC.String(req.Title)
	if req.BibleVerse != nil {
		v := norm.NFC.String(*req.BibleVerse)
		req.BibleVerse = &v
	}
	if req.Content != nil {
		v := norm.NFC.String(*req.Content)
		req.Content = &v
	}
}

func normalizeUpdate(upd *model.GenerationUpdate) {
	if upd.Title != nil {
		v := norm.NFC.String(*upd.Title)
		upd.Title = &v
	}
	if upd.BibleVerse != nil {
		v := norm.NFC.String(*upd.BibleVerse)
		upd.BibleVerse = &v
	}
	if upd.Content != nil {
		v := norm.NFC.String(*upd.Content)
		upd.Content = &v
	}
}
