package task

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"vcheckapp/middleware"
	"vcheckapp/model"
	"vcheckapp/services"
	"vcheckapp/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RegenerateLinkController(router *gin.Engine, tasks store.TaskStore, blobs store.BlobStore) {
	router.POST("/task/:taskid/link", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		RegenerateLink(c, tasks, blobs)
	})
}

// RegenerateLink mints a fresh public link for a task. The link embeds the
// document id, so a new link means a new id: the task and every submission
// under it are migrated to the new id in one atomic batch while the old
// documents are retired. A Completed task is reopened so the new link can
// accept submissions again.
func RegenerateLink(c *gin.Context, tasks store.TaskStore, blobs store.BlobStore) {
	userId := c.MustGet("userId").(string)
	taskId := c.Param("taskid")

	ctx := context.Background()
	oldTask, err := tasks.GetTask(ctx, userId, taskId)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}

	newId := uuid.New().String()
	link := fmt.Sprintf("%s/verify/%s/%s", os.Getenv("PUBLIC_BASE_URL"), userId, newId)

	newTask := *oldTask
	newTask.ID = newId
	newTask.IsPublic = true
	newTask.FormLink = link
	if newTask.Status == model.StatusCompleted {
		newTask.Status = model.StatusOpen
	}

	lifecycle := services.NewLifecycleService(tasks, blobs)
	summary, err := lifecycle.MigrateTask(ctx, userId, oldTask, &newTask)
	if err != nil {
		var txErr *services.StoreTransactionError
		if errors.As(err, &txErr) {
			// Nothing moved; old task and submissions are intact.
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": "failure",
				"error":  "Could not move task and its submissions",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "failure", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "success",
		"message":          "Task updated with new link",
		"taskID":           summary.NewTaskID,
		"formLink":         link,
		"submissionsMoved": summary.SubmissionsMoved,
		"updatedAt":        time.Now(),
	})
}
