package task

import (
	"context"
	"net/http"

	"vcheckapp/middleware"
	"vcheckapp/model"
	"vcheckapp/store"

	"github.com/gin-gonic/gin"
)

func GetTasksController(router *gin.Engine, tasks store.TaskStore) {
	router.GET("/tasks", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		GetTasks(c, tasks)
	})
}

func GetTasks(c *gin.Context, tasks store.TaskStore) {
	userId := c.MustGet("userId").(string)

	ctx := context.Background()
	taskList, err := tasks.ListTasks(ctx, userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}

	if taskList == nil {
		taskList = []model.MotoTask{}
	}

	stats := gin.H{
		"total":      len(taskList),
		"open":       0,
		"inProgress": 0,
		"completed":  0,
	}
	for _, t := range taskList {
		switch t.Status {
		case model.StatusOpen:
			stats["open"] = stats["open"].(int) + 1
		case model.StatusInProgress:
			stats["inProgress"] = stats["inProgress"].(int) + 1
		case model.StatusCompleted:
			stats["completed"] = stats["completed"].(int) + 1
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": taskList,
		"stats": stats,
	})
}
