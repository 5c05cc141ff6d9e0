package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hsse-suite/hsse-portal/hsse-portal-backend/internal/api"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/audit"
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
	docs := rg.Group("/documents")
	{
		docs.POST("", h.Create)
		docs.GET("", h.List)
		docs.GET("/:id", h.Get)
		docs.POST("/:id/file", h.AttachFile)
		docs.GET("/:id/file-url", h.FileURL)
		docs.POST("/:id/submit", h.Submit)
		docs.POST("/:id/approve", h.Approve)
		docs.POST("/:id/reject", h.Reject)
		docs.GET("/:id/history", h.History)
		docs.GET("/:id/history/export", h.ExportHistory)
	}
}

type createBody struct {
	Title        string       `json:"title" binding:"required"`
	Description  string       `json:"description"`
	DocumentType DocumentType `json:"document_type" binding:"required"`
}

func (h *Handler) Create(c *gin.Context) {
	var body createBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.Create(c.Request.Context(), CreateRequest{
		Title:        body.Title,
		Description:  body.Description,
		DocumentType: body.DocumentType,
		OwnerID:      auth.UserID(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) List(c *gin.Context) {
	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}
	var docType *DocumentType
	if v := c.Query("document_type"); v != "" {
		dt := DocumentType(v)
		docType = &dt
	}

	docs, err := h.service.List(c.Request.Context(), status, docType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	doc, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) AttachFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	doc, err := h.service.AttachFile(c.Request.Context(), id, file.Filename, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) FileURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	url, err := h.service.FileURL(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) Submit(c *gin.Context) {
	h.transition(c, func(id uuid.UUID, actor Actor) (*workflow.Result, error) {
		return h.service.Submit(c.Request.Context(), id, actor)
	})
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

func (h *Handler) ExportHistory(c *gin.Context) {
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

	c.Header("Content-Disposition", `attachment; filename="document-history.pdf"`)
	c.Header("Content-Type", "application/pdf")
	exporter := audit.NewPDFExporter("Document Review History")
	if err := exporter.Export(c.Writer, entries); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
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
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	if errors.Is(err, ErrStaleSnapshot) {
		c.JSON(http.StatusConflict, gin.H{"error": "document changed, refresh and retry"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	api.WriteTransitionResult(c, result)
}
