package handler

import (
	"log/slog"

	"github.com/frequentation/internal/locale"
	"github.com/frequentation/internal/logging"
	"github.com/frequentation/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db              *gorm.DB
	data            *service.DataService
	defaultLanguage string
	log             *slog.Logger
}

// NewAPI constructs a handler set over the data facade.
func NewAPI(db *gorm.DB, data *service.DataService, defaultLanguage string) *API {
	language := locale.NormalizeLanguage(defaultLanguage)
	if language == "" {
		language = locale.LanguageFrench
	}
	return &API{
		db:              db,
		data:            data,
		defaultLanguage: language,
		log:             logging.Component("handler"),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Data exposes the data facade.
func (a *API) Data() *service.DataService {
	return a.data
}
