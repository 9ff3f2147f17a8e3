package blog

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/models"
	"github.com/mx-space/portfolio/internal/modules/content/resource"
	"github.com/mx-space/portfolio/internal/pkg/query"
	"github.com/mx-space/portfolio/internal/pkg/repository"
	"github.com/mx-space/portfolio/internal/pkg/response"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	defaultRecent = 5
	maxRecent     = 100
)

// Kind describes the blogs collection.
var Kind = resource.Kind[models.BlogModel]{
	Label:   "Blog",
	ListKey: "blogs",
	IDField: "id",
	Sort:    bson.D{{Key: "createdAt", Value: -1}},
	New:     models.NewBlog,
}

type Service = resource.Service[models.BlogModel, *models.BlogModel]

func NewService(coll repository.Collection[models.BlogModel]) *Service {
	return resource.NewService[models.BlogModel, *models.BlogModel](coll, Kind)
}

type Handler struct {
	*resource.Handler[models.BlogModel, *models.BlogModel]
}

func NewHandler(svc *Service, opts resource.Options) *Handler {
	return &Handler{Handler: resource.NewHandler(svc, opts)}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/blogs")
	g.GET("", h.List(listFilter))
	g.GET("/category/:thumb", h.All(categoryFilter))
	g.GET("/recent/:count", h.recent)
	g.GET("/:id", h.get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Replace)
	g.DELETE("/:id", h.Delete)
}

func published() query.Filter {
	return query.New().Set("isPublished", true)
}

func listFilter(c *gin.Context) bson.M {
	return published().
		Contains("author", c.Query("author")).
		Contains("thumb", c.Query("thumb")).
		Search(c.Query("search"), []string{"title", "description"}).
		M()
}

func categoryFilter(c *gin.Context) bson.M {
	return published().Set("thumb", query.Contains(c.Param("thumb"))).M()
}

// get counts the read before answering with the post.
func (h *Handler) get(c *gin.Context) {
	doc, err := h.Service().Update(c.Request.Context(), c.Param("id"), bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.OK(c, doc)
}

func (h *Handler) recent(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("count"))
	if err != nil || n < 1 {
		n = defaultRecent
	}
	if n > maxRecent {
		n = maxRecent
	}
	items, err := h.Service().All(c.Request.Context(), published().M(), int64(n))
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.OK(c, items)
}
