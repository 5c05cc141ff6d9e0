package records

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"hsse-suite/hsse-portal/hsse-portal-backend/internal/api"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/auth"
	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/workflow"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	recs := rg.Group("/records")
	{
		recs.POST("", h.Create)
		recs.GET("", h.List)
		recs.GET("/:id", h.Get)
		recs.POST("/:id/approve", h.Approve)
		recs.POST("/:id/reject", h.Reject)
		recs.GET("/:id/history", h.History)
	}
}

type createBody struct {
	Title      string         `json:"title" binding:"required"`
	RecordType RecordType     `json:"record_type" binding:"required"`
	Details    datatypes.JSON `json:"details"`
}

func (h *Handler) Create(c *gin.Context) {
	var body createBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.service.Create(c.Request.Context(), CreateRequest{
		Title:       body.Title,
		RecordType:  body.RecordType,
		SubmittedBy: auth.UserID(c),
		Details:     body.Details,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) List(c *gin.Context) {
	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}
	var recType *RecordType
	if v := c.Query("record_type"); v != "" {
		rt := RecordType(v)
		recType = &rt
	}

	recs, err := h.service.List(c.Request.Context(), status, recType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	rec, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) Approve(c *gin.Context) {
	h.transition(c, func(id uuid.UUID, actor Actor) (*workflow.Result, error) {
		return h.service.Approve(c.Request.Context(), id, actor)
	})
}

type rejectBody struct {
	Comment string `json:"comment"`
}

func (h *Handler) Reject(c *gin.Context) {
	var body rejectBody
	_ = c.ShouldBindJSON(&body)
	h.transition(c, func(id uuid.UUID, actor Actor) (*workflow.Result, error) {
		return h.service.Reject(c.Request.Context(), id, actor, body.Comment)
	})
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

func (h *Handler) transition(c *gin.Context, fn func(uuid.UUID, Actor) (*workflow.Result, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	actor := Actor{ID: auth.UserID(c), Role: auth.ActorRole(c)}
	result, err := fn(id, actor)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if errors.Is(err, ErrStaleSnapshot) {
		c.JSON(http.StatusConflict, gin.H{"error": "record changed, refresh and retry"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	api.WriteTransitionResult(c, result)
}
