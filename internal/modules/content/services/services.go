package services

import (
	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/models"
	"github.com/mx-space/portfolio/internal/modules/content/resource"
	"github.com/mx-space/portfolio/internal/pkg/query"
	"github.com/mx-space/portfolio/internal/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
)

var Kind = resource.Kind[models.ServiceModel]{
	Label:   "Service",
	ListKey: "services",
	IDField: "Id",
	Sort:    bson.D{{Key: "createdAt", Value: -1}},
	New:     models.NewService,
}

type Service = resource.Service[models.ServiceModel, *models.ServiceModel]

func NewService(coll repository.Collection[models.ServiceModel]) *Service {
	return resource.NewService[models.ServiceModel, *models.ServiceModel](coll, Kind)
}

type Handler struct {
	*resource.Handler[models.ServiceModel, *models.ServiceModel]
}

func NewHandler(svc *Service, opts resource.Options) *Handler {
	return &Handler{Handler: resource.NewHandler(svc, opts)}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/services")
	g.GET("", h.List(listFilter))
	g.GET("/popular/all", h.All(func(*gin.Context) bson.M {
		return bson.M{"popular": true, "isActive": true}
	}))
	g.GET("/active/all", h.All(func(*gin.Context) bson.M {
		return bson.M{"isActive": true}
	}))
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Replace)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/toggle-status", h.ToggleStatus)
}

func listFilter(c *gin.Context) bson.M {
	return query.New().
		Bool("isActive", c.Query("active")).
		Bool("popular", c.Query("popular")).
		Search(c.Query("search"), []string{"title", "description"}, "features").
		M()
}
