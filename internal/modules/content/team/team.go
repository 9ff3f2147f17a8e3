package team

import (
	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/models"
	"github.com/mx-space/portfolio/internal/modules/content/resource"
	"github.com/mx-space/portfolio/internal/pkg/query"
	"github.com/mx-space/portfolio/internal/pkg/repository"
	"github.com/mx-space/portfolio/internal/pkg/response"
	"go.mongodb.org/mongo-driver/bson"
)

var Kind = resource.Kind[models.TeamModel]{
	Label:   "Team member",
	ListKey: "teams",
	IDField: "Id",
	Sort:    bson.D{{Key: "joinDate", Value: -1}},
	New:     models.NewTeam,
}

type Service struct {
	*resource.Service[models.TeamModel, *models.TeamModel]
}

func NewService(coll repository.Collection[models.TeamModel]) *Service {
	return &Service{Service: resource.NewService[models.TeamModel, *models.TeamModel](coll, Kind)}
}

type Handler struct {
	*resource.Handler[models.TeamModel, *models.TeamModel]
	svc *Service
}

func NewHandler(svc *Service, opts resource.Options) *Handler {
	return &Handler{Handler: resource.NewHandler(svc.Service, opts), svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/teams")
	g.GET("", h.List(listFilter))
	g.GET("/position/:title", h.All(func(c *gin.Context) bson.M {
		return query.New().Contains("title", c.Param("title")).Set("isActive", true).M()
	}))
	g.GET("/active/all", h.All(func(*gin.Context) bson.M {
		return bson.M{"isActive": true}
	}))
	g.GET("/stats/overview", h.stats)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Replace)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/toggle-status", h.ToggleStatus)
}

func listFilter(c *gin.Context) bson.M {
	return query.New().
		Bool("isActive", c.Query("active")).
		Contains("title", c.Query("title")).
		Search(c.Query("search"), []string{"name", "title", "bio"}, "skills").
		M()
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.OK(c, stats)
}
