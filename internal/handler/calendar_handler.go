package handler

import (
	"html"
	"net/http"
	"strings"

	"github.com/frequentation/internal/service"
	"github.com/gin-gonic/gin"
)

// GetCalendar 返回月历网格，带备注的日期附带渲染后的 note_html
func (a *API) GetCalendar(c *gin.Context) {
	today := a.data.Today()
	month := today
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := service.ParseMonth(raw)
		if err != nil {
			a.handleDataError(c, "calendar", err)
			return
		}
		month = parsed
	}

	data, err := a.data.Load(c.Request.Context())
	if err != nil {
		a.handleDataError(c, "calendar", err)
		return
	}

	filter := service.ParseCalendarFilter(c.Query("filter"))
	grid := service.CalendarMonth(data, month, filter, today, a.requestLanguage(c))

	for w := range grid.Weeks {
		for d := range grid.Weeks[w] {
			cell := &grid.Weeks[w][d]
			if cell.Note == "" {
				continue
			}
			rendered, err := renderNote(cell.Note)
			if err != nil {
				c.Error(err)
				rendered = "<p>" + html.EscapeString(cell.Note) + "</p>"
			}
			cell.NoteHTML = rendered
		}
	}

	c.JSON(http.StatusOK, grid)
}
