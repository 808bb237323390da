package task

import (
	"context"
	"net/http"
	"time"

	"vcheckapp/dto"
	"vcheckapp/middleware"
	"vcheckapp/model"
	"vcheckapp/services"
	"vcheckapp/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CreateTaskController(router *gin.Engine, tasks store.TaskStore) {
	router.POST("/task", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		CreateTask(c, tasks)
	})
}

func CreateTask(c *gin.Context, tasks store.TaskStore) {
	userId := c.MustGet("userId").(string)
	var taskReq dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&taskReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx := context.Background()
	if _, err := services.GetOwner(ctx, tasks, userId); err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	status := taskReq.Status
	if status == "" {
		status = model.StatusOpen
	}
	if !model.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	taskid := uuid.New().String()
	now := time.Now()

	newtask := model.MotoTask{
		ID:              taskid,
		VehicleNumber:   taskReq.VehicleNumber,
		Name:            taskReq.Name,
		RegNumber:       taskReq.RegNumber,
		TaskDescription: taskReq.TaskDescription,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := tasks.CreateTask(ctx, userId, &newtask); err != nil {
		c.JSON(500, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"taskID":  taskid,
	})
}
