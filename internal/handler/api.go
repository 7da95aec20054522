package handler

import (
	"github.com/draftsmith/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	documents   *service.DocumentService
	versions    *service.VersionService
	branches    *service.BranchService
	comparisons *service.ComparisonService
	history     *service.HistoryService
	system      *service.SystemSettingService
	drafter     service.ContentDrafter
	metaGen     service.MetaGenerator
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB) *API {
	systemService := service.NewSystemSettingService(gdb)

	return &API{
		db:          gdb,
		documents:   service.NewDocumentService(gdb),
		versions:    service.NewVersionService(gdb),
		branches:    service.NewBranchService(gdb),
		comparisons: service.NewComparisonService(gdb),
		history:     service.NewHistoryService(gdb),
		system:      systemService,
		drafter:     service.NewAIDraftService(systemService),
		metaGen:     service.NewAIMetaService(systemService),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
