package handler

import (
	"net/http"
	"strings"

	"github.com/frequentation/internal/analytics"
	"github.com/frequentation/internal/locale"
	"github.com/gin-gonic/gin"
)

const (
	prefThemeKey    = "pref_theme"
	prefLanguageKey = "pref_language"
	prefPeriodKey   = "pref_period"
)

var supportedThemes = map[string]struct{}{
	"light":  {},
	"dark":   {},
	"system": {},
}

// Preferences 为每个浏览器保存在 cookie 会话中的界面偏好
type Preferences struct {
	Theme    string               `json:"theme"`
	Language string               `json:"language"`
	Period   analytics.PeriodKind `json:"period"`
}

type preferencesRequest struct {
	Theme    *string `json:"theme"`
	Language *string `json:"language"`
	Period   *string `json:"period"`
}

// GetPreferences 返回当前会话的偏好，缺失项使用默认值
func (a *API) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"preferences": a.currentPreferences(c)})
}

// UpdatePreferences 保存主题、语言与默认周期
func (a *API) UpdatePreferences(c *gin.Context) {
	lang := a.requestLanguage(c)

	var payload preferencesRequest
	if !bindJSON(c, &payload, locale.Pick(lang, "Invalid preferences", "Préférences invalides")) {
		return
	}

	session := sessionFrom(c)
	if session == nil {
		respondError(c, http.StatusInternalServerError, locale.Pick(lang, "Session unavailable", "Session indisponible"))
		return
	}

	if payload.Theme != nil {
		theme := strings.ToLower(strings.TrimSpace(*payload.Theme))
		if _, ok := supportedThemes[theme]; !ok {
			respondError(c, http.StatusBadRequest, locale.Pick(lang, "Unknown theme", "Thème inconnu"))
			return
		}
		session.Set(prefThemeKey, theme)
	}
	if payload.Language != nil {
		language := locale.NormalizeLanguage(*payload.Language)
		if language == "" {
			respondError(c, http.StatusBadRequest, locale.Pick(lang, "Unsupported language", "Langue non prise en charge"))
			return
		}
		session.Set(prefLanguageKey, language)
		c.Set(localeContextKey, locale.PreferenceForLanguage(language))
	}
	if payload.Period != nil {
		period, err := analytics.ParsePeriodKind(*payload.Period)
		if err != nil {
			a.handleDataError(c, "updatePreferences", err)
			return
		}
		session.Set(prefPeriodKey, string(period))
	}

	if err := session.Save(); err != nil {
		a.log.Error("session save failed", "action", "updatePreferences", "error", err)
		respondError(c, http.StatusInternalServerError, locale.Pick(lang, "Could not save preferences", "Impossible d'enregistrer les préférences"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": a.currentPreferences(c)})
}

func (a *API) currentPreferences(c *gin.Context) Preferences {
	prefs := Preferences{
		Theme:    "system",
		Language: a.requestLanguage(c),
		Period:   analytics.PeriodWeek,
	}
	session := sessionFrom(c)
	if session == nil {
		return prefs
	}
	if theme, ok := session.Get(prefThemeKey).(string); ok && theme != "" {
		prefs.Theme = theme
	}
	if period, ok := session.Get(prefPeriodKey).(string); ok {
		if kind, err := analytics.ParsePeriodKind(period); err == nil {
			prefs.Period = kind
		}
	}
	return prefs
}

// defaultPeriod 未指定 period 参数时使用会话中保存的默认周期
func (a *API) defaultPeriod(c *gin.Context) analytics.PeriodKind {
	return a.currentPreferences(c).Period
}
