package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entityoverlay/internal/assets"
	"entityoverlay/internal/middleware"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/render"
	"entityoverlay/internal/route"
	"entityoverlay/internal/service"
)

// Deps 路由依赖
type Deps struct {
	Schema      *service.SchemaService
	Entities    *service.EntityService
	References  *service.ReferenceService
	Blocks      *service.BlockService
	Resolver    *overlay.Resolver
	Views       overlay.ViewRenderer
	Engine      *render.Engine
	Routes      *route.Table
	Dialog      overlay.DialogOptions
	Logger      overlay.Logger
	CORSOrigins string
	AccessLog   bool
}

// NewRouter 注册所有路由
func NewRouter(d Deps) (*gin.Engine, error) {
	router := gin.New()
	if d.AccessLog {
		router.Use(middleware.Logger())
	}
	router.Use(middleware.Recovery(d.Logger))
	router.Use(middleware.CORS(d.CORSOrigins))

	schemaHandler := NewSchemaHandler(d.Schema)
	entityHandler := NewEntityHandler(d.Entities, d.References)
	referenceHandler := NewReferenceHandler(d.References)
	overlayHandler := NewOverlayHandler(d.Resolver, d.Dialog, d.Logger)
	pageHandler := NewPageHandler(d.Entities, d.Schema, d.Blocks, d.Views, d.Engine)

	api := router.Group("/api/v1")
	{
		schemaAPI := api.Group("/schema")
		{
			schemaAPI.GET("/object-types", schemaHandler.ListObjectTypes)
			schemaAPI.GET("/object-types/:name", schemaHandler.GetObjectType)
			schemaAPI.GET("/object-types/:name/view-modes", schemaHandler.GetViewModes)
			schemaAPI.GET("/object-types/:name/displays/:view_mode", schemaHandler.GetDisplay)
			schemaAPI.GET("/object-types/:name/outgoing-links", schemaHandler.GetOutgoingLinks)
			schemaAPI.GET("/object-types/:name/incoming-links", schemaHandler.GetIncomingLinks)
			schemaAPI.GET("/link-types", schemaHandler.ListLinkTypes)
			schemaAPI.GET("/link-types/:name", schemaHandler.GetLinkType)
			schemaAPI.GET("/blocks", schemaHandler.ListBlocks)
		}

		entitiesAPI := api.Group("/entities")
		{
			entitiesAPI.POST("/:entity_type", entityHandler.CreateEntity)
			entitiesAPI.GET("/:entity_type", entityHandler.ListEntities)
			entitiesAPI.GET("/:entity_type/:id", entityHandler.GetEntity)
			entitiesAPI.PUT("/:entity_type/:id", entityHandler.UpdateEntity)
			entitiesAPI.DELETE("/:entity_type/:id", entityHandler.DeleteEntity)
		}

		referencesAPI := api.Group("/references")
		{
			referencesAPI.POST("/:field", referenceHandler.CreateReference)
			referencesAPI.GET("/:field", referenceHandler.ListReferences)
			referencesAPI.GET("/:field/:id", referenceHandler.GetReference)
			referencesAPI.DELETE("/:field/:id", referenceHandler.DeleteReference)
		}

		api.GET("/blocks/:id", pageHandler.BlockJSON)
	}

	overlayPattern, err := d.Routes.GinPattern(overlay.RouteOverlay)
	if err != nil {
		return nil, err
	}
	router.GET(overlayPattern, overlayHandler.GetEntityResponse)

	for _, ot := range d.Schema.ListObjectTypes() {
		pattern, err := d.Routes.GinPattern(overlay.CanonicalRoute(ot.Name))
		if err != nil {
			return nil, err
		}
		router.GET(pattern, pageHandler.Entity(ot.Name))
	}

	router.GET("/blocks/:id", pageHandler.Block)
	router.StaticFS(assets.Prefix, http.FS(assets.FS()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	return router, nil
}
