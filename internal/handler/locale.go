package handler

import (
	"strings"

	"github.com/frequentation/internal/locale"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const localeContextKey = "__request_locale"

// LocaleMiddleware resolves request language and sets headers for downstream caching.
func (a *API) LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		pref := a.requestLocale(c)
		if pref.HTMLLang != "" {
			c.Header("Content-Language", pref.HTMLLang)
		}
		appendVaryHeader(c, "Accept-Language", "Cookie")
		c.Next()
	}
}

func (a *API) requestLanguage(c *gin.Context) string {
	return a.requestLocale(c).Language
}

func (a *API) requestLocale(c *gin.Context) locale.Preference {
	if cached, exists := c.Get(localeContextKey); exists {
		if pref, ok := cached.(locale.Preference); ok {
			return pref
		}
	}
	language, persist := a.resolveLanguage(c)
	pref := locale.PreferenceForLanguage(language)
	if persist {
		persistLanguage(c, pref.Language)
	}
	c.Set(localeContextKey, pref)
	return pref
}

// resolveLanguage: ?lang= > session preference > Accept-Language > configured default
func (a *API) resolveLanguage(c *gin.Context) (string, bool) {
	if override := locale.NormalizeLanguage(c.Query("lang")); override != "" {
		return override, true
	}
	if session := sessionFrom(c); session != nil {
		if stored, ok := session.Get(prefLanguageKey).(string); ok {
			if language := locale.NormalizeLanguage(stored); language != "" {
				return language, false
			}
		}
	}
	if fromHeader := locale.LanguageFromAcceptLanguage(c.GetHeader("Accept-Language")); fromHeader != "" {
		return fromHeader, false
	}
	return a.defaultLanguage, false
}

func persistLanguage(c *gin.Context, language string) {
	session := sessionFrom(c)
	if session == nil {
		return
	}
	if current, _ := session.Get(prefLanguageKey).(string); current == language {
		return
	}
	session.Set(prefLanguageKey, language)
	if err := session.Save(); err != nil {
		c.Error(err)
	}
}

// sessionFrom returns nil when the sessions middleware is not installed.
func sessionFrom(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

func appendVaryHeader(c *gin.Context, headers ...string) {
	existing := c.Writer.Header().Get("Vary")
	seen := make(map[string]struct{})
	order := make([]string, 0, len(headers))
	for _, token := range append(strings.Split(existing, ","), headers...) {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		order = append(order, trimmed)
	}
	if len(order) > 0 {
		c.Header("Vary", strings.Join(order, ", "))
	}
}
