package router

import (
	"net/http"

	"github.com/frequentation/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "frequentation_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件，保存界面偏好
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(api.LocaleMiddleware())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/healthz", api.HealthCheck)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/data", api.GetData)
		apiGroup.POST("/data", api.PostAction)

		apiGroup.GET("/jours/:date", api.GetDay)
		apiGroup.GET("/jours/:date/duplicate", api.DuplicatePreviousDay)

		apiGroup.GET("/export", api.ExportData)
		apiGroup.POST("/import", api.ImportData)
		apiGroup.POST("/reset", api.ResetData)
		apiGroup.POST("/clear", api.ClearData)

		apiGroup.GET("/analytics", api.GetAnalytics)
		apiGroup.GET("/analytics/navigate", api.NavigateAnalytics)
		apiGroup.GET("/analytics/export.csv", api.ExportAnalyticsCSV)
		apiGroup.GET("/analytics/export.xlsx", api.ExportAnalyticsXLSX)

		apiGroup.GET("/calendar", api.GetCalendar)
		apiGroup.GET("/stats", api.GetStats)

		apiGroup.GET("/preferences", api.GetPreferences)
		apiGroup.PUT("/preferences", api.UpdatePreferences)
	}

	return r
}
