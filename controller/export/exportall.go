package export

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"vcheckapp/middleware"
	"vcheckapp/services"
	"vcheckapp/store"

	"github.com/gin-gonic/gin"
)

func ExportAllTasksController(router *gin.Engine, tasks store.TaskStore, blobs store.BlobStore) {
	router.GET("/tasks/export", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		ExportAllTasks(c, tasks, blobs)
	})
}

func ExportAllTasks(c *gin.Context, tasks store.TaskStore, blobs store.BlobStore) {
	userId := c.MustGet("userId").(string)

	ctx := context.Background()
	taskList, err := tasks.ListTasks(ctx, userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}
	if len(taskList) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "There are no tasks available to download"})
		return
	}

	archiver := services.NewArchiveService(tasks, blobs)
	archive, err := archiver.BuildAllTasksArchive(ctx, userId, taskList)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "There was a problem creating the full archive"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.Filename))
	c.Header("X-Export-Warnings", strconv.Itoa(len(archive.Warnings)))
	c.Data(http.StatusOK, "application/zip", archive.Data)
}
