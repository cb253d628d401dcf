package v1

import (
	"github.com/gin-gonic/gin"
)

// WarehouseRouteHandler is implemented by handlers.WarehouseHandler.
type WarehouseRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Archive(c *gin.Context)
	Replace(c *gin.Context)
}

// RegisterWarehouseRoutes mounts the warehouse lifecycle routes on group.
//
// Usage:
//
//	handler := handlers.NewWarehouseHandler(base, service)
//	RegisterWarehouseRoutes(router.Group("/warehouse"), handler)
func RegisterWarehouseRoutes(group *gin.RouterGroup, handler WarehouseRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:code", handler.Get)
	group.DELETE("/:code", handler.Archive)
	group.POST("/:code/replacement", handler.Replace)
}
