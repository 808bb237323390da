package submission

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vcheckapp/dto"
	"vcheckapp/model"
	"vcheckapp/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CreateSubmissionController(router *gin.Engine, tasks store.TaskStore, blobs store.BlobStore) {
	router.POST("/verify/:userId/:taskid", func(c *gin.Context) {
		CreateSubmission(c, tasks, blobs)
	})
}

// CreateSubmission records one verifier's evidence against a shared task:
// photos go to the blob store first, then the submission document is written
// with the returned URLs and the task is marked Completed.
func CreateSubmission(c *gin.Context, tasks store.TaskStore, blobs store.BlobStore) {
	userId := c.Param("userId")
	taskId := c.Param("taskid")

	var subReq dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&subReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if len(subReq.Photos) > model.MaxSubmissionPhotos {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("At most %d photos are allowed", model.MaxSubmissionPhotos),
		})
		return
	}

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

	submissionId := uuid.New().String()

	photoUrls := make([]string, 0, len(subReq.Photos))
	for i, photo := range subReq.Photos {
		data, err := decodePhoto(photo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid photo at index %d", i)})
			return
		}

		path := fmt.Sprintf("submissions/%s/%s/%d_%d.jpg", taskId, submissionId, time.Now().UnixMilli(), i)
		photoURL, err := blobs.Put(ctx, path, data, "image/jpeg")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
			return
		}
		photoUrls = append(photoUrls, photoURL)
	}

	newSubmission := model.Submission{
		ID:           submissionId,
		VerifierName: subReq.VerifierName,
		Notes:        subReq.Notes,
		PhotoUrls:    photoUrls,
		CreatedAt:    time.Now(),
	}

	if err := tasks.CreateSubmission(ctx, userId, taskId, &newSubmission); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save submission"})
		return
	}

	// A completed verification closes the task on the dashboard.
	updates := map[string]interface{}{
		"status":    model.StatusCompleted,
		"updatedAt": time.Now(),
	}
	if err := tasks.UpdateTask(ctx, userId, taskId, updates); err != nil {
		c.JSON(http.StatusCreated, gin.H{
			"status":       "success_with_warnings",
			"message":      "Submission saved but task status was not updated",
			"submissionID": submissionId,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":       "success",
		"message":      "Submission recorded successfully",
		"submissionID": submissionId,
		"photoCount":   len(photoUrls),
	})
}

// decodePhoto accepts either a bare base64 payload or a data URL as captured
// by the verify page camera.
func decodePhoto(photo string) ([]byte, error) {
	if idx := strings.Index(photo, ","); idx != -1 && strings.HasPrefix(photo, "data:") {
		photo = photo[idx+1:]
	}
	return base64.StdEncoding.DecodeString(photo)
}
