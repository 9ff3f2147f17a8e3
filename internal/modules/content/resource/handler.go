package resource

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/models"
	"github.com/mx-space/portfolio/internal/pkg/pagination"
	"github.com/mx-space/portfolio/internal/pkg/repository"
	"github.com/mx-space/portfolio/internal/pkg/response"
	"github.com/mx-space/portfolio/internal/pkg/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Options carry the ambient dependencies of a handler.
type Options struct {
	Log *zap.Logger
	// Detail exposes internal error text to clients (development).
	Detail bool
}

// Handler serves the routes every content resource has.
type Handler[T any, P Doc[T]] struct {
	svc  *Service[T, P]
	opts Options
}

func NewHandler[T any, P Doc[T]](svc *Service[T, P], opts Options) *Handler[T, P] {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Handler[T, P]{svc: svc, opts: opts}
}

func (h *Handler[T, P]) Service() *Service[T, P] { return h.svc }

// List answers with one page of the filter built from the request.
func (h *Handler[T, P]) List(filter func(c *gin.Context) bson.M) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := pagination.FromContext(c)
		page, err := h.svc.List(c.Request.Context(), filter(c), q)
		if err != nil {
			h.Fail(c, err)
			return
		}
		response.ListPage(c, h.svc.kind.ListKey, page.Items, q.TotalPages(page.Total), q.Page, page.Total)
	}
}

// All answers with every match of the filter as a bare array.
func (h *Handler[T, P]) All(filter func(c *gin.Context) bson.M) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.svc.All(c.Request.Context(), filter(c), 0)
		if err != nil {
			h.Fail(c, err)
			return
		}
		response.OK(c, items)
	}
}

func (h *Handler[T, P]) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.OK(c, doc)
}

func (h *Handler[T, P]) Create(c *gin.Context) {
	doc := h.svc.kind.New()
	if err := validation.BindJSON(c, doc, models.StoreFields...); err != nil {
		h.Fail(c, err)
		return
	}
	if err := h.svc.Create(c.Request.Context(), doc); err != nil {
		h.Fail(c, err)
		return
	}
	response.Created(c, doc)
}

func (h *Handler[T, P]) Replace(c *gin.Context) {
	doc, err := h.svc.Replace(c.Request.Context(), c.Param("id"), func(doc *T) error {
		return validation.BindJSON(c, doc, models.StoreFields...)
	})
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.OK(c, doc)
}

func (h *Handler[T, P]) Delete(c *gin.Context) {
	if _, err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Fail(c, err)
		return
	}
	response.Message(c, h.svc.kind.Label+" deleted successfully")
}

type toggler interface{ ToggleActive() }

// ToggleStatus flips the active flag of the resolved item.
func (h *Handler[T, P]) ToggleStatus(c *gin.Context) {
	doc, err := h.svc.Replace(c.Request.Context(), c.Param("id"), func(doc *T) error {
		t, ok := any(doc).(toggler)
		if !ok {
			return fmt.Errorf("%T has no active flag", doc)
		}
		t.ToggleActive()
		return nil
	})
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.OK(c, doc)
}

// Fail maps a store or input error onto the response.
func (h *Handler[T, P]) Fail(c *gin.Context, err error) {
	if c.IsAborted() {
		// The size limiter already answered.
		return
	}
	label := h.svc.kind.Label
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "Request entity too large")
	case errors.Is(err, repository.ErrNotFound):
		response.NotFoundMsg(c, label+" not found")
	case errors.Is(err, repository.ErrDuplicate):
		response.Conflict(c, fmt.Sprintf("%s with this %s or slug already exists", label, h.svc.kind.IDField))
	default:
		if msgs, ok := validation.Messages(err); ok {
			response.ValidationFailed(c, msgs)
			return
		}
		h.opts.Log.Error(strings.ToLower(label)+" request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		response.InternalError(c, err, h.opts.Detail)
	}
}
