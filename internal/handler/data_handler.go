package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/frequentation/internal/locale"
	"github.com/frequentation/internal/model"
	"github.com/frequentation/internal/service"
	"github.com/gin-gonic/gin"
)

type actionRequest struct {
	Action string          `json:"action" binding:"required"`
	Data   json.RawMessage `json:"data"`
}

// GetData 返回完整数据集 {jours, typologies, version}
func (a *API) GetData(c *gin.Context) {
	data, err := a.data.Load(c.Request.Context())
	if err != nil {
		a.handleDataError(c, "load", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// PostAction 解析 {action, data} 并应用，返回修改后的完整数据集
func (a *API) PostAction(c *gin.Context) {
	var payload actionRequest
	if !bindJSON(c, &payload, locale.Pick(a.requestLanguage(c), "Invalid action request", "Requête d'action invalide")) {
		return
	}

	action, err := service.DecodeAction(payload.Action, payload.Data)
	if err != nil {
		a.handleDataError(c, payload.Action, err)
		return
	}
	a.applyAction(c, action)
}

// GetDay 返回单日记录
func (a *API) GetDay(c *gin.Context) {
	day, err := a.data.GetDayRecord(c.Request.Context(), c.Param("date"))
	if err != nil {
		a.handleDataError(c, "getJour", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// DuplicatePreviousDay 返回前一天的计数作为草稿，不写入
func (a *API) DuplicatePreviousDay(c *gin.Context) {
	date := c.Param("date")
	counts, err := a.data.DuplicatePreviousDay(c.Request.Context(), date)
	if err != nil {
		a.handleDataError(c, "duplicateJour", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":          date,
		"typologies":    counts,
		"total_visites": model.SumCounts(counts),
	})
}

// ExportData 以附件形式下载 JSON 文档
func (a *API) ExportData(c *gin.Context) {
	raw, err := a.data.Export(c.Request.Context())
	if err != nil {
		a.handleDataError(c, "export", err)
		return
	}
	filename := fmt.Sprintf("frequentation_%s.json", model.FormatDate(a.data.Today()))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// ImportData 读取原始 JSON 文档并整体替换数据集
func (a *API) ImportData(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		a.handleDataError(c, service.ActionImport, fmt.Errorf("%w: %v", service.ErrInvalidImport, err))
		return
	}
	a.applyAction(c, service.ImportAction{Document: raw})
}

// ResetData 恢复默认类型与示例数据
func (a *API) ResetData(c *gin.Context) {
	a.applyAction(c, service.ResetAction{})
}

// ClearData 清空全部日期记录
func (a *API) ClearData(c *gin.Context) {
	a.applyAction(c, service.ClearAction{})
}

func (a *API) applyAction(c *gin.Context, action service.Action) {
	data, err := action.Apply(c.Request.Context(), a.data)
	if err != nil {
		a.handleDataError(c, action.Name(), err)
		return
	}
	c.JSON(http.StatusOK, data)
}
