package connection

import (
	"log"

	exportcontroller "vcheckapp/controller/export"
	submissioncontroller "vcheckapp/controller/submission"
	taskcontroller "vcheckapp/controller/task"
	"vcheckapp/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func StartServer() {
	router := gin.Default()

	fb, bucket, bucketName, err := FBConnection()
	if err != nil {
		log.Fatalf("Failed to initialize Firebase clients: %v", err)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	router.Use(cors.Default())

	tasks := store.NewFirestoreTaskStore(fb)
	blobs := store.NewFirebaseBlobStore(bucket, bucketName)

	taskcontroller.CreateTaskController(router, tasks)
	taskcontroller.GetTasksController(router, tasks)
	taskcontroller.UpdateTaskController(router, tasks)
	taskcontroller.RegenerateLinkController(router, tasks, blobs)
	taskcontroller.DeleteTaskController(router, tasks, blobs)
	submissioncontroller.PublicTaskController(router, tasks)
	submissioncontroller.CreateSubmissionController(router, tasks, blobs)
	exportcontroller.ExportTaskController(router, tasks, blobs)
	exportcontroller.ExportAllTasksController(router, tasks, blobs)
	exportcontroller.ReportController(router, tasks)

	router.Run()
}
