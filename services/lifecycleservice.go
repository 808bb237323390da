package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"vcheckapp/model"
	"vcheckapp/store"
)

// LifecycleService owns the two multi-step task operations: cascading
// delete and identity migration. Concurrent invocations on the same task are
// not serialized here; the store's per-batch atomicity is the only guarantee
// and the last committed batch wins.
type LifecycleService struct {
	tasks store.TaskStore
	blobs store.BlobStore
}

func NewLifecycleService(tasks store.TaskStore, blobs store.BlobStore) *LifecycleService {
	return &LifecycleService{tasks: tasks, blobs: blobs}
}

// DeleteSummary describes a completed cascading delete.
type DeleteSummary struct {
	SubmissionsDeleted int           `json:"submissionsDeleted"`
	BlobsDeleted       int           `json:"blobsDeleted"`
	Warnings           []ItemFailure `json:"warnings,omitempty"`
}

type blobDeleteResult struct {
	url string
	err error
}

// DeleteTask removes a task, its submissions and every photo blob they
// reference. Blob deletes run first and are best-effort: an already-absent
// blob is ignored and any other blob failure is recorded without aborting.
// The task and submission documents are then removed in one atomic batch so
// readers never observe a half-deleted tree.
func (s *LifecycleService) DeleteTask(ctx context.Context, userID string, task *model.MotoTask) (*DeleteSummary, error) {
	if task == nil || task.ID == "" {
		return nil, &ValidationError{Field: "task", Reason: "missing task id"}
	}

	subs, err := s.tasks.ListSubmissions(ctx, userID, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for task %s: %w", task.ID, err)
	}

	var photoURLs []string
	submissionIDs := make([]string, 0, len(subs))
	for _, sub := range subs {
		submissionIDs = append(submissionIDs, sub.ID)
		photoURLs = append(photoURLs, sub.PhotoUrls...)
	}

	summary := &DeleteSummary{SubmissionsDeleted: len(subs)}

	// Fan out one delete per photo and join on all of them; a failure never
	// short-circuits the rest.
	resultChan := make(chan blobDeleteResult, len(photoURLs))
	for _, photoURL := range photoURLs {
		go func(u string) {
			resultChan <- blobDeleteResult{url: u, err: s.blobs.Delete(ctx, u)}
		}(photoURL)
	}

	for range photoURLs {
		result := <-resultChan
		switch {
		case result.err == nil:
			summary.BlobsDeleted++
		case errors.Is(result.err, store.ErrBlobNotFound):
			// Already gone, nothing to clean up.
		default:
			log.Printf("Failed to delete photo blob %s: %v", result.url, result.err)
			summary.Warnings = append(summary.Warnings, ItemFailure{ID: result.url, Error: result.err.Error()})
		}
	}

	if err := s.tasks.DeleteTaskTree(ctx, userID, task.ID, submissionIDs); err != nil {
		return nil, &PartialCleanupError{BlobsDeleted: summary.BlobsDeleted, Err: err}
	}

	return summary, nil
}

// MigrateSummary describes a completed identity migration.
type MigrateSummary struct {
	NewTaskID        string `json:"newTaskId"`
	SubmissionsMoved int    `json:"submissionsMoved"`
}

// MigrateTask retires oldTask's document id and re-creates the task as
// newTask, carrying every submission to the new parent path. CreatedAt is
// preserved from the original and UpdatedAt refreshed. All writes and
// deletes go into a single atomic batch, so observers see either the old
// tree or the new one, never a mix. Photo blobs are untouched: their URLs
// are independent of the document hierarchy and move with the submissions.
func (s *LifecycleService) MigrateTask(ctx context.Context, userID string, oldTask, newTask *model.MotoTask) (*MigrateSummary, error) {
	if oldTask == nil || oldTask.ID == "" {
		return nil, &ValidationError{Field: "task", Reason: "missing task id"}
	}
	if newTask == nil || newTask.ID == "" {
		return nil, &ValidationError{Field: "newId", Reason: "missing new task id"}
	}
	if newTask.ID == oldTask.ID {
		return nil, &ValidationError{Field: "newId", Reason: "new id equals current id"}
	}

	subs, err := s.tasks.ListSubmissions(ctx, userID, oldTask.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for task %s: %w", oldTask.ID, err)
	}

	newTask.CreatedAt = oldTask.CreatedAt
	newTask.UpdatedAt = time.Now()

	if err := s.tasks.MoveTaskTree(ctx, userID, oldTask.ID, newTask, subs); err != nil {
		return nil, &StoreTransactionError{Op: "task migration", Err: err}
	}

	return &MigrateSummary{NewTaskID: newTask.ID, SubmissionsMoved: len(subs)}, nil
}
