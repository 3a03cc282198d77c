package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/frequentation/internal/analytics"
	"github.com/frequentation/internal/model"
	"github.com/frequentation/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetAnalytics 返回指定周期的完整分析报告
func (a *API) GetAnalytics(c *gin.Context) {
	report, ok := a.computeReport(c, "analytics")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// NavigateAnalytics 将参考日期移动到前一个或后一个周期
// 目标周期完全在未来时保持原日期，moved=false
func (a *API) NavigateAnalytics(c *gin.Context) {
	kind, ref, err := a.periodParams(c)
	if err != nil {
		a.handleDataError(c, "navigate", err)
		return
	}
	direction, err := analytics.ParseDirection(c.Query("direction"))
	if err != nil {
		a.handleDataError(c, "navigate", err)
		return
	}

	today := a.data.Today()
	next, moved, err := analytics.Navigate(kind, ref, direction, today)
	if err != nil {
		a.handleDataError(c, "navigate", err)
		return
	}
	bounds, err := analytics.PeriodBounds(kind, next, today)
	if err != nil {
		a.handleDataError(c, "navigate", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period": kind,
		"date":   model.FormatDate(next),
		"moved":  moved,
		"label":  bounds.Label(a.requestLanguage(c)),
		"start":  model.FormatDate(bounds.Start),
		"end":    model.FormatDate(bounds.End),
	})
}

// ExportAnalyticsCSV 以 CSV 附件导出当前序列
func (a *API) ExportAnalyticsCSV(c *gin.Context) {
	a.exportReport(c, "csv", "text/csv; charset=utf-8", analytics.WriteCSV)
}

// ExportAnalyticsXLSX 以 Excel 附件导出当前序列
func (a *API) ExportAnalyticsXLSX(c *gin.Context) {
	a.exportReport(c, "xlsx", xlsxContentType, analytics.WriteXLSX)
}

func (a *API) exportReport(c *gin.Context, ext, contentType string, write func(io.Writer, analytics.Report) error) {
	action := "export." + ext
	report, ok := a.computeReport(c, action)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, report); err != nil {
		a.handleDataError(c, action, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", analytics.ExportFilename(report, ext)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (a *API) computeReport(c *gin.Context, action string) (analytics.Report, bool) {
	kind, ref, err := a.periodParams(c)
	if err != nil {
		a.handleDataError(c, action, err)
		return analytics.Report{}, false
	}

	data, err := a.data.Load(c.Request.Context())
	if err != nil {
		a.handleDataError(c, action, err)
		return analytics.Report{}, false
	}

	report, err := analytics.Compute(data.Days, data.Categories, analytics.Query{
		Period:    kind,
		Reference: ref,
		Today:     a.data.Today(),
		Selected:  parseListQuery(c.Query("typologies")),
		Trend:     parseBoolQuery(c.Query("trend")),
		Language:  a.requestLanguage(c),
	})
	if err != nil {
		a.handleDataError(c, action, err)
		return analytics.Report{}, false
	}
	return report, true
}

// periodParams 读取 period 与 date 参数；缺省时分别使用会话默认周期与今天
func (a *API) periodParams(c *gin.Context) (analytics.PeriodKind, time.Time, error) {
	kind := a.defaultPeriod(c)
	if raw := strings.TrimSpace(c.Query("period")); raw != "" {
		parsed, err := analytics.ParsePeriodKind(raw)
		if err != nil {
			return "", time.Time{}, err
		}
		kind = parsed
	}

	ref := a.data.Today()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := model.ParseDate(raw)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("%w: %v", service.ErrInvalidDate, err)
		}
		ref = parsed
	}
	return kind, ref, nil
}
