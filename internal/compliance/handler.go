package compliance

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hsse-suite/hsse-portal/hsse-portal-backend/internal/api"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	obs := rg.Group("/obligations")
	{
		obs.POST("", h.Create)
		obs.GET("", h.Register)
		obs.GET("/export", h.ExportRegister)
		obs.GET("/:id", h.Get)
		obs.POST("/:id/review", h.ConductReview)
		obs.GET("/:id/history", h.History)
	}
}

type createBody struct {
	Reference        string     `json:"reference" binding:"required"`
	Title            string     `json:"title" binding:"required"`
	Category         string     `json:"category"`
	Status           string     `json:"status"`
	NextReviewDate   *time.Time `json:"next_review_date"`
	ReviewPeriodDays int        `json:"review_period_days"`
}

func (h *Handler) Create(c *gin.Context) {
	var body createBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ob, err := h.service.Create(c.Request.Context(), CreateRequest{
		Reference:        body.Reference,
		Title:            body.Title,
		Category:         body.Category,
		Status:           body.Status,
		OwnerID:          auth.UserID(c),
		NextReviewDate:   body.NextReviewDate,
		ReviewPeriodDays: body.ReviewPeriodDays,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ob)
}

func (h *Handler) Register(c *gin.Context) {
	var category *string
	if v := c.Query("category"); v != "" {
		category = &v
	}

	entries, err := h.service.Register(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) ExportRegister(c *gin.Context) {
	var category *string
	if v := c.Query("category"); v != "" {
		category = &v
	}

	entries, err := h.service.Register(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="legal-register.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := ExportRegister(c.Writer, entries); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ob, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "obligation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ob)
}

type reviewBody struct {
	Outcome         string `json:"outcome"`
	Comment         string `json:"comment"`
	ArchiveEvidence bool   `json:"archive_evidence"`
}

func (h *Handler) ConductReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body reviewBody
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.ConductReview(c.Request.Context(), id, ReviewRequest{
		Actor:           Actor{ID: auth.UserID(c), Role: auth.ActorRole(c)},
		Outcome:         body.Outcome,
		Comment:         body.Comment,
		ArchiveEvidence: body.ArchiveEvidence,
	})
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "obligation not found"})
		return
	}
	if errors.Is(err, ErrStaleSnapshot) {
		c.JSON(http.StatusConflict, gin.H{"error": "obligation changed, refresh and retry"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	api.WriteTransitionResult(c, result)
}

func (h *Handler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	entries, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
