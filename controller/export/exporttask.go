package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"vcheckapp/middleware"
	"vcheckapp/services"
	"vcheckapp/store"

	"github.com/gin-gonic/gin"
)

func ExportTaskController(router *gin.Engine, tasks store.TaskStore, blobs store.BlobStore) {
	router.GET("/task/:taskid/export", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		ExportTask(c, tasks, blobs)
	})
}

// ExportTask streams a zip of one task: its spreadsheet plus every photo.
// Photos that could not be fetched are represented by placeholder entries
// inside the archive; their count is surfaced in a response header.
func ExportTask(c *gin.Context, tasks store.TaskStore, blobs store.BlobStore) {
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

	archiver := services.NewArchiveService(tasks, blobs)
	archive, err := archiver.BuildTaskArchive(ctx, userId, task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "There was a problem creating the task archive"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.Filename))
	c.Header("X-Export-Warnings", strconv.Itoa(len(archive.Warnings)))
	c.Data(http.StatusOK, "application/zip", archive.Data)
}
