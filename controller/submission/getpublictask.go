package submission

import (
	"context"
	"errors"
	"net/http"

	"vcheckapp/store"

	"github.com/gin-gonic/gin"
)

func PublicTaskController(router *gin.Engine, tasks store.TaskStore) {
	router.GET("/verify/:userId/:taskid", func(c *gin.Context) {
		GetPublicTask(c, tasks)
	})
}

// GetPublicTask serves the task metadata behind a shared verification link.
// Tasks that were never shared are indistinguishable from absent ones.
func GetPublicTask(c *gin.Context, tasks store.TaskStore) {
	userId := c.Param("userId")
	taskId := c.Param("taskid")

	ctx := context.Background()
	task, err := tasks.GetTask(ctx, userId, taskId)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}

	if !task.IsPublic {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            task.ID,
		"vehicleNumber": task.VehicleNumber,
		"name":          task.Name,
		"regNumber":     task.RegNumber,
		"status":        task.Status,
	})
}
