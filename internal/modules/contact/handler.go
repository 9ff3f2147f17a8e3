package contact

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/pkg/metrics"
	"github.com/mx-space/portfolio/internal/pkg/pagination"
	"github.com/mx-space/portfolio/internal/pkg/repository"
	"github.com/mx-space/portfolio/internal/pkg/response"
	"github.com/mx-space/portfolio/internal/pkg/validation"
	"go.uber.org/zap"
)

const (
	msgSubmitted     = "Your message has been sent successfully! We will get back to you soon."
	msgFixErrors     = "Please correct the following errors"
	msgDuplicate     = "A message from this email has already been submitted"
	msgSubmitFailed  = "Server error, please try again later."
	msgNotFound      = "Contact not found"
	msgInvalidStatus = "Invalid status"
	msgStatusUpdated = "Contact status updated successfully"
	msgDeleted       = "Contact deleted successfully"
	msgListFailed    = "Failed to retrieve contacts"
	msgUpdateFailed  = "Failed to update contact status"
	msgDeleteFailed  = "Failed to delete contact"
	msgGetFailed     = "Failed to retrieve contact"
	msgTooLarge      = "Request entity too large"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the contact routes. submit guards the public form
// post; admin guards everything else.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, submit []gin.HandlerFunc, admin ...gin.HandlerFunc) {
	g := rg.Group("/contact")
	post := append(append([]gin.HandlerFunc{}, submit...), h.submit)
	g.POST("", post...)

	a := g.Group("", admin...)
	a.GET("", h.list)
	a.GET("/:id", h.get)
	a.PUT("/:id/status", h.setStatus)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) submit(c *gin.Context) {
	var form Form
	if err := c.ShouldBindJSON(&form); err != nil && !errors.Is(err, io.EOF) {
		if h.rejectedBody(c, err) {
			return
		}
		msgs, ok := validation.Messages(err)
		if !ok {
			msgs = []string{err.Error()}
		}
		metrics.ContactSubmission("invalid")
		response.FailureErrors(c, msgFixErrors, msgs)
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		metrics.ContactSubmission("invalid")
		response.FailureErrors(c, msgFixErrors, errs)
		return
	}

	record := form.Submission(c.ClientIP(), c.GetHeader("User-Agent"))
	if err := h.svc.Submit(c.Request.Context(), record); err != nil {
		metrics.ContactSubmission("failed")
		if errors.Is(err, repository.ErrDuplicate) {
			response.Failure(c, http.StatusConflict, msgDuplicate)
			return
		}
		h.log.Error("contact submission failed", zap.Error(err))
		response.Failure(c, http.StatusInternalServerError, msgSubmitFailed)
		return
	}

	metrics.ContactSubmission("accepted")
	h.log.Info("contact submission received", zap.String("id", record.ObjectID.Hex()))
	response.Success(c, http.StatusCreated, msgSubmitted, gin.H{
		"id":          record.ObjectID.Hex(),
		"submittedAt": record.CreatedAt,
	})
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request.Context(), c.DefaultQuery("status", statusAll), q)
	if err != nil {
		h.log.Error("list contacts failed", zap.Error(err))
		response.Failure(c, http.StatusInternalServerError, msgListFailed)
		return
	}
	response.SuccessPaged(c, items, response.Pagination{
		Current: q.Page,
		Pages:   q.TotalPages(total),
		Total:   total,
		Limit:   q.Limit,
	})
}

func (h *Handler) get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, msgGetFailed)
		return
	}
	response.Success(c, http.StatusOK, "", item)
}

type statusBody struct {
	Status string `json:"status"`
}

func (h *Handler) setStatus(c *gin.Context) {
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		if h.rejectedBody(c, err) {
			return
		}
		response.Failure(c, http.StatusBadRequest, msgInvalidStatus)
		return
	}
	item, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		h.fail(c, err, msgUpdateFailed)
		return
	}
	response.Success(c, http.StatusOK, msgStatusUpdated, item)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, msgDeleteFailed)
		return
	}
	response.Success(c, http.StatusOK, msgDeleted, nil)
}

// rejectedBody reports whether the body read failed on the size limit, in
// which case the response has been written.
func (h *Handler) rejectedBody(c *gin.Context, err error) bool {
	if c.IsAborted() {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Failure(c, http.StatusRequestEntityTooLarge, msgTooLarge)
		return true
	}
	return false
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		response.Failure(c, http.StatusBadRequest, msgInvalidStatus)
	case errors.Is(err, repository.ErrNotFound):
		response.Failure(c, http.StatusNotFound, msgNotFound)
	default:
		h.log.Error("contact request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Failure(c, http.StatusInternalServerError, fallback)
	}
}
