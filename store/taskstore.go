package store

import (
	"context"
	"errors"

	"vcheckapp/model"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// TaskStore is the slice of the document store the dashboard operates
// against: users/{userId}/motoTasks/{taskId}/submissions/{submissionId}.
//
// DeleteTaskTree and MoveTaskTree are atomic: either every write in the
// batch is applied or none is.
type TaskStore interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)

	GetTask(ctx context.Context, userID, taskID string) (*model.MotoTask, error)
	ListTasks(ctx context.Context, userID string) ([]model.MotoTask, error)
	CreateTask(ctx context.Context, userID string, task *model.MotoTask) error
	UpdateTask(ctx context.Context, userID, taskID string, updates map[string]interface{}) error

	ListSubmissions(ctx context.Context, userID, taskID string) ([]model.Submission, error)
	CreateSubmission(ctx context.Context, userID, taskID string, sub *model.Submission) error

	// DeleteTaskTree removes the task document and the listed submission
	// documents in one atomic batch.
	DeleteTaskTree(ctx context.Context, userID, taskID string, submissionIDs []string) error

	// MoveTaskTree writes newTask and its submissions under the new task id
	// and removes the old task document and old submissions, all in one
	// atomic batch. Submission document ids are kept.
	MoveTaskTree(ctx context.Context, userID, oldTaskID string, newTask *model.MotoTask, submissions []model.Submission) error
}
