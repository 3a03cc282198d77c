package handler

import (
	"net/http"

	"github.com/frequentation/internal/service"
	"github.com/gin-gonic/gin"
)

// GetStats 返回数据集统计、按家族分组的类型与存储信息
func (a *API) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	data, err := a.data.Load(ctx)
	if err != nil {
		a.handleDataError(c, "stats", err)
		return
	}
	info, err := a.data.Info(ctx)
	if err != nil {
		a.handleDataError(c, "stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":    service.ComputeStats(data),
		"familles": service.GroupByFamily(data.Categories, a.requestLanguage(c)),
		"info":     info,
	})
}
