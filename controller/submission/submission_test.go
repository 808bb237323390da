package submission

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vcheckapp/model"
	"vcheckapp/store/storetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type SubmissionControllerTestSuite struct {
	suite.Suite
	tasks  *storetest.MemTaskStore
	blobs  *storetest.MemBlobStore
	router *gin.Engine
}

func (suite *SubmissionControllerTestSuite) SetupTest() {
	suite.tasks = storetest.NewMemTaskStore()
	suite.blobs = storetest.NewMemBlobStore()

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	PublicTaskController(suite.router, suite.tasks)
	CreateSubmissionController(suite.router, suite.tasks, suite.blobs)
}

func (suite *SubmissionControllerTestSuite) seedTask(taskID string, public bool) {
	task := &model.MotoTask{
		ID:            taskID,
		VehicleNumber: "V12345",
		Name:          "John Doe",
		RegNumber:     "R-98765",
		Status:        model.StatusOpen,
		IsPublic:      public,
		CreatedAt:     time.Now(),
	}
	suite.Require().NoError(suite.tasks.CreateTask(context.Background(), "user-1", task))
}

func (suite *SubmissionControllerTestSuite) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *SubmissionControllerTestSuite) TestGetPublicTask() {
	suite.seedTask("task-1", true)

	req := httptest.NewRequest(http.MethodGet, "/verify/user-1/task-1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("V12345", resp["vehicleNumber"])
}

func (suite *SubmissionControllerTestSuite) TestGetPrivateTaskLooksAbsent() {
	suite.seedTask("task-1", false)

	req := httptest.NewRequest(http.MethodGet, "/verify/user-1/task-1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *SubmissionControllerTestSuite) TestCreateSubmissionUploadsPhotosAndCompletesTask() {
	suite.seedTask("task-1", true)

	photo := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	body := fmt.Sprintf(`{"verifierName":"Jane","notes":"All good","photos":[%q]}`, photo)
	w := suite.postJSON("/verify/user-1/task-1", body)

	suite.Equal(http.StatusCreated, w.Code)

	ctx := context.Background()
	subs, err := suite.tasks.ListSubmissions(ctx, "user-1", "task-1")
	suite.Require().NoError(err)
	suite.Require().Len(subs, 1)
	suite.Equal("Jane", subs[0].VerifierName)
	suite.Require().Len(subs[0].PhotoUrls, 1)
	suite.True(suite.blobs.Exists(subs[0].PhotoUrls[0]))

	task, err := suite.tasks.GetTask(ctx, "user-1", "task-1")
	suite.Require().NoError(err)
	suite.Equal(model.StatusCompleted, task.Status)
}

func (suite *SubmissionControllerTestSuite) TestCreateSubmissionRejectsTooManyPhotos() {
	suite.seedTask("task-1", true)

	photos := make([]string, model.MaxSubmissionPhotos+1)
	encoded := base64.StdEncoding.EncodeToString([]byte("x"))
	for i := range photos {
		photos[i] = fmt.Sprintf("%q", encoded)
	}
	body := fmt.Sprintf(`{"verifierName":"Jane","notes":"n","photos":[%s]}`, strings.Join(photos, ","))
	w := suite.postJSON("/verify/user-1/task-1", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *SubmissionControllerTestSuite) TestCreateSubmissionRequiresNotes() {
	suite.seedTask("task-1", true)

	w := suite.postJSON("/verify/user-1/task-1", `{"verifierName":"Jane"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *SubmissionControllerTestSuite) TestCreateSubmissionOnUnknownTask() {
	w := suite.postJSON("/verify/user-1/absent", `{"verifierName":"Jane","notes":"n"}`)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestSubmissionControllerTestSuite(t *testing.T) {
	suite.Run(t, new(SubmissionControllerTestSuite))
}
