package project

import (
	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/models"
	"github.com/mx-space/portfolio/internal/modules/content/resource"
	"github.com/mx-space/portfolio/internal/pkg/query"
	"github.com/mx-space/portfolio/internal/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
)

var Kind = resource.Kind[models.ProjectModel]{
	Label:   "Project",
	ListKey: "projects",
	IDField: "Id",
	Sort:    bson.D{{Key: "createdAt", Value: -1}},
	New:     models.NewProject,
}

type Service = resource.Service[models.ProjectModel, *models.ProjectModel]

func NewService(coll repository.Collection[models.ProjectModel]) *Service {
	return resource.NewService[models.ProjectModel, *models.ProjectModel](coll, Kind)
}

type Handler struct {
	*resource.Handler[models.ProjectModel, *models.ProjectModel]
}

func NewHandler(svc *Service, opts resource.Options) *Handler {
	return &Handler{Handler: resource.NewHandler(svc, opts)}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/projects")
	g.GET("", h.List(listFilter))
	g.GET("/category/:category", h.All(func(c *gin.Context) bson.M {
		return query.New().Contains("category", c.Param("category")).M()
	}))
	g.GET("/featured/all", h.All(func(*gin.Context) bson.M {
		return bson.M{"featured": true}
	}))
	g.GET("/status/:status", h.All(func(c *gin.Context) bson.M {
		return bson.M{"status": c.Param("status")}
	}))
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Replace)
	g.DELETE("/:id", h.Delete)
}

func listFilter(c *gin.Context) bson.M {
	return query.New().
		Contains("category", c.Query("category")).
		Equals("status", c.Query("status")).
		Bool("featured", c.Query("featured")).
		Search(c.Query("search"), []string{"title", "description", "sub"}).
		M()
}
