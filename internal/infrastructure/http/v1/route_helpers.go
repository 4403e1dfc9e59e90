package v1

import (
	"github.com/gin-gonic/gin"
)

// LocationRouteHandler defines the storage location endpoints.
type LocationRouteHandler interface {
	Preview(c *gin.Context)
	BulkCreate(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Tree(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterLocationRoutes mounts read and preview routes on public and
// every write on protected. Both groups must share the same path prefix.
//
// Usage:
//
//	handler := handlers.NewLocationsHandler(baseHandler, service)
//	RegisterLocationRoutes(v1.Group("/storage-locations"), protected.Group("/storage-locations"), handler)
func RegisterLocationRoutes(public, protected *gin.RouterGroup, handler LocationRouteHandler) {
	public.POST("/generate-preview", handler.Preview)
	public.GET("", handler.List)
	public.GET("/tree", handler.Tree)
	public.GET("/:id", handler.Get)

	protected.POST("/bulk-create", handler.BulkCreate)
	protected.POST("", handler.Create)
	protected.DELETE("/:id", handler.Delete)
}
