package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vcheckapp/middleware"
	"vcheckapp/services"
	"vcheckapp/store"

	"github.com/gin-gonic/gin"
)

func ReportController(router *gin.Engine, tasks store.TaskStore) {
	router.GET("/report", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		GenerateReport(c, tasks)
	})
}

// GenerateReport streams a periodic report of the caller's tasks. A period
// with no qualifying tasks is not an error: the response names the computed
// range and no file is produced.
func GenerateReport(c *gin.Context, tasks store.TaskStore) {
	userId := c.MustGet("userId").(string)
	period := services.ReportPeriod(c.DefaultQuery("period", string(services.PeriodDaily)))
	format := services.ReportFormat(c.DefaultQuery("format", string(services.FormatExcel)))

	ctx := context.Background()
	taskList, err := tasks.ListTasks(ctx, userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}

	reporter := services.NewReportService()
	report, err := reporter.BuildReport(taskList, period, format, time.Now())
	if err != nil {
		var emptyErr *services.EmptyPeriodError
		if errors.As(err, &emptyErr) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "empty",
				"message": "No tasks were created in the selected period",
				"start":   emptyErr.Start.Format("2006-01-02"),
				"end":     emptyErr.End.Format("2006-01-02"),
			})
			return
		}
		var valErr *services.ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.MIMEType, report.Data)
}
