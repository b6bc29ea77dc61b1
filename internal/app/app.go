package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"entityoverlay/internal/config"
	"entityoverlay/internal/display"
	"entityoverlay/internal/dsl"
	"entityoverlay/internal/formatter"
	"entityoverlay/internal/handler"
	"entityoverlay/internal/logging"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/render"
	"entityoverlay/internal/route"
	"entityoverlay/internal/service"
	"entityoverlay/internal/storage"
)

// App 组装好的服务
type App struct {
	Router *gin.Engine
	Loader *dsl.Loader
}

// New 加载 Schema 并组装存储、渲染、服务和路由
func New(cfg *config.Config, logs *logging.Factory) (*App, error) {
	loader := dsl.NewLoader(cfg.Schema.FilePath)
	if err := loader.Load(); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	schema := loader.GetSchema()

	typeNames := make([]string, 0, len(schema.ObjectTypes))
	for _, ot := range schema.ObjectTypes {
		typeNames = append(typeNames, ot.Name)
	}
	routes, err := route.NewOverlayTable(typeNames...)
	if err != nil {
		return nil, err
	}
	links := overlay.NewLinkBuilder(routes)

	var renderOptions []render.Option
	if cfg.Templates.Dir != "" {
		renderOptions = append(renderOptions, render.WithOverrideDir(cfg.Templates.Dir))
	}
	engine, err := render.New(renderOptions...)
	if err != nil {
		return nil, err
	}

	// 存储
	pathManager := storage.NewPathManager(cfg.Data.RootPath, schema.Namespace)
	entityStorage := storage.NewEntityStorage(pathManager)
	referenceStorage := storage.NewReferenceStorage(pathManager)

	// 服务
	entityLog := logs.Get("entity")
	formatters := formatter.NewRegistry(
		formatter.NewRenderedOverlay(engine, links, entityLog),
		formatter.NewOverlayLink(engine, links, entityLog),
	)
	validator := service.NewDataValidator(loader)
	entities := service.NewEntityService(entityStorage, loader, validator)
	references := service.NewReferenceService(referenceStorage, entities, loader, validator)
	views := display.NewViewBuilder(loader, engine, references, formatters, links)
	blocks := service.NewBlockService(loader, entities, views, engine, links)

	router, err := handler.NewRouter(handler.Deps{
		Schema:     service.NewSchemaService(loader, formatters),
		Entities:   entities,
		References: references,
		Blocks:     blocks,
		Resolver:   overlay.NewResolver(entities, views, links),
		Views:      views,
		Engine:     engine,
		Routes:     routes,
		Dialog: overlay.DialogOptions{
			Width:  cfg.Overlay.DialogWidth,
			Height: cfg.Overlay.DialogHeight,
		},
		Logger:      logs.Get("http"),
		CORSOrigins: cfg.Server.CORSOrigins,
		AccessLog:   gin.Mode() != gin.TestMode,
	})
	if err != nil {
		return nil, err
	}

	return &App{Router: router, Loader: loader}, nil
}
