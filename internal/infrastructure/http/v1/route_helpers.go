// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"daftar/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler is the route surface every catalog handler provides.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// DocumentRouteHandler is the route surface every document handler provides.
// Documents have no post/unpost: effects apply on create, reverse on delete.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", middleware.RequireRead(), handler.List)
	group.POST("", middleware.RequireWrite(), handler.Create)
	group.GET("/:id", middleware.RequireRead(), handler.Get)
	group.PUT("/:id", middleware.RequireWrite(), handler.Update)
	group.DELETE("/:id", middleware.RequireWrite(), handler.Delete)
	group.POST("/:id/deletion-mark", middleware.RequireWrite(), handler.SetDeletionMark)
}

// RegisterDocumentRoutes registers mutation + query routes for one
// trade document kind.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler) {
	group.GET("", middleware.RequireRead(), handler.List)
	group.POST("", middleware.RequireWrite(), handler.Create)
	group.GET("/:id", middleware.RequireRead(), handler.Get)
	group.PUT("/:id", middleware.RequireWrite(), handler.Update)
	group.DELETE("/:id", middleware.RequireWrite(), handler.Delete)
}
