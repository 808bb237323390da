package task

import (
	"context"
	"errors"
	"net/http"

	"vcheckapp/middleware"
	"vcheckapp/services"
	"vcheckapp/store"

	"github.com/gin-gonic/gin"
)

func DeleteTaskController(router *gin.Engine, tasks store.TaskStore, blobs store.BlobStore) {
	router.DELETE("/task/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		DeleteTask(c, tasks, blobs)
	})
}

// DeleteTask cascades a delete across the task, its submissions and their
// photo blobs. Blob failures other than already-gone are reported as
// warnings; a failed document batch after blob cleanup is reported
// distinctly so the client can retry just the document deletion.
func DeleteTask(c *gin.Context, tasks store.TaskStore, blobs store.BlobStore) {
	userId := c.MustGet("userId").(string)
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

	lifecycle := services.NewLifecycleService(tasks, blobs)
	summary, err := lifecycle.DeleteTask(ctx, userId, task)
	if err != nil {
		var cleanupErr *services.PartialCleanupError
		if errors.As(err, &cleanupErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":       "failure",
				"error":        "Task documents were not deleted; retry is safe",
				"blobsDeleted": cleanupErr.BlobsDeleted,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "failure", "error": "Failed to delete task"})
		return
	}

	response := gin.H{
		"status":             "success",
		"message":            "Task and all its submissions have been removed",
		"taskID":             taskId,
		"submissionsDeleted": summary.SubmissionsDeleted,
		"blobsDeleted":       summary.BlobsDeleted,
	}
	if len(summary.Warnings) > 0 {
		response["status"] = "success_with_warnings"
		response["warnings"] = summary.Warnings
	}

	c.JSON(http.StatusOK, response)
}
