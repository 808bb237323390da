package task

import (
	"context"
	"errors"
	"net/http"
	"time"

	"vcheckapp/dto"
	"vcheckapp/middleware"
	"vcheckapp/model"
	"vcheckapp/store"

	"github.com/gin-gonic/gin"
)

func UpdateTaskController(router *gin.Engine, tasks store.TaskStore) {
	router.PUT("/task/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		UpdateTask(c, tasks)
	})
}

// UpdateTask edits task fields in place. The document id and createdAt are
// never touched here; regenerating the public link goes through the
// migration endpoint instead.
func UpdateTask(c *gin.Context, tasks store.TaskStore) {
	userId := c.MustGet("userId").(string)
	taskId := c.Param("taskid")

	var updateReq dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if updateReq.VehicleNumber != "" {
		updates["vehicleNumber"] = updateReq.VehicleNumber
	}
	if updateReq.Name != "" {
		updates["name"] = updateReq.Name
	}
	if updateReq.RegNumber != "" {
		updates["regNumber"] = updateReq.RegNumber
	}
	if updateReq.TaskDescription != nil {
		updates["taskDescription"] = *updateReq.TaskDescription
	}
	if updateReq.Status != "" {
		if !model.ValidStatus(updateReq.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		updates["status"] = updateReq.Status
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}
	updates["updatedAt"] = time.Now()

	ctx := context.Background()
	if err := tasks.UpdateTask(ctx, userId, taskId, updates); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"taskID":  taskId,
	})
}
