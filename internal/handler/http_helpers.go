package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/frequentation/internal/analytics"
	"github.com/frequentation/internal/locale"
	"github.com/frequentation/internal/service"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// handleDataError 将门面错误映射为 HTTP 状态，并在此处统一记录一次日志
func (a *API) handleDataError(c *gin.Context, action string, err error) {
	lang := a.requestLanguage(c)

	status := http.StatusInternalServerError
	message := locale.Pick(lang, "Storage error", "Erreur de stockage")

	switch {
	case errors.Is(err, service.ErrDayRecordNotFound):
		status = http.StatusNotFound
		message = locale.Pick(lang, "No record for this date", "Aucune saisie pour cette date")
	case errors.Is(err, service.ErrInvalidDate):
		status = http.StatusBadRequest
		message = locale.Pick(lang, "Invalid date", "Date invalide")
	case errors.Is(err, service.ErrInvalidImport):
		status = http.StatusBadRequest
		message = locale.Pick(lang, "Invalid import file", "Fichier d'import invalide")
	case errors.Is(err, service.ErrUnknownAction):
		status = http.StatusBadRequest
		message = locale.Pick(lang, "Unknown action", "Action inconnue")
	case errors.Is(err, service.ErrInvalidCount):
		status = http.StatusBadRequest
		message = locale.Pick(lang, "Counts must be positive", "Les comptages doivent être positifs")
	case errors.Is(err, service.ErrCategoryNotFound):
		status = http.StatusBadRequest
		message = locale.Pick(lang, "Unknown category", "Typologie inconnue")
	case errors.Is(err, service.ErrInvalidCategory):
		status = http.StatusBadRequest
		message = locale.Pick(lang, "Category name is required", "Le nom de la typologie est obligatoire")
	case errors.Is(err, service.ErrInvalidPayload):
		status = http.StatusBadRequest
		message = locale.Pick(lang, "Invalid request data", "Données de requête invalides")
	case errors.Is(err, analytics.ErrInvalidPeriod):
		status = http.StatusBadRequest
		message = locale.Pick(lang, "Invalid period", "Période invalide")
	}

	if status >= http.StatusInternalServerError {
		a.log.Error("data operation failed", "action", action, "error", err)
	} else {
		a.log.Warn("data operation rejected", "action", action, "error", err)
	}
	respondError(c, status, message)
}

func parseListQuery(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	values := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, trimmed)
	}
	return values
}

func parseBoolQuery(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "oui", "on":
		return true
	default:
		return false
	}
}
