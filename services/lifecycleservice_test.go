package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"vcheckapp/model"
	"vcheckapp/store"
	"vcheckapp/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

func seedTask(t *testing.T, tasks *storetest.MemTaskStore, blobs *storetest.MemBlobStore, taskID string, subCount, photosPerSub int) []string {
	t.Helper()
	ctx := context.Background()

	task := &model.MotoTask{
		ID:            taskID,
		VehicleNumber: "V12345",
		Name:          "John Doe",
		RegNumber:     "R-98765",
		Status:        model.StatusOpen,
		CreatedAt:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, tasks.CreateTask(ctx, testUser, task))

	var urls []string
	for i := 0; i < subCount; i++ {
		sub := &model.Submission{
			ID:           taskID + "-sub-" + string(rune('a'+i)),
			VerifierName: "Verifier",
			Notes:        "Checked",
			CreatedAt:    time.Now(),
		}
		for j := 0; j < photosPerSub; j++ {
			path := taskID + "/" + sub.ID + "/photo_" + string(rune('0'+j)) + ".jpg"
			url, err := blobs.Put(ctx, path, []byte("jpeg-bytes"), "image/jpeg")
			require.NoError(t, err)
			sub.PhotoUrls = append(sub.PhotoUrls, url)
			urls = append(urls, url)
		}
		require.NoError(t, tasks.CreateSubmission(ctx, testUser, taskID, sub))
	}
	return urls
}

func TestDeleteTaskRemovesDocumentsAndBlobs(t *testing.T) {
	tasks := storetest.NewMemTaskStore()
	blobs := storetest.NewMemBlobStore()
	urls := seedTask(t, tasks, blobs, "task-1", 2, 2)

	ctx := context.Background()
	task, err := tasks.GetTask(ctx, testUser, "task-1")
	require.NoError(t, err)

	svc := NewLifecycleService(tasks, blobs)
	summary, err := svc.DeleteTask(ctx, testUser, task)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.SubmissionsDeleted)
	assert.Equal(t, 4, summary.BlobsDeleted)
	assert.Empty(t, summary.Warnings)

	_, err = tasks.GetTask(ctx, testUser, "task-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	subs, err := tasks.ListSubmissions(ctx, testUser, "task-1")
	require.NoError(t, err)
	assert.Empty(t, subs)
	for _, url := range urls {
		assert.False(t, blobs.Exists(url), "blob %s should be gone", url)
	}
}

func TestDeleteTaskIgnoresAlreadyMissingBlobs(t *testing.T) {
	tasks := storetest.NewMemTaskStore()
	blobs := storetest.NewMemBlobStore()
	urls := seedTask(t, tasks, blobs, "task-1", 1, 2)

	ctx := context.Background()
	// Simulate a retried delete: one blob is already gone.
	require.NoError(t, blobs.Delete(ctx, urls[0]))

	task, err := tasks.GetTask(ctx, testUser, "task-1")
	require.NoError(t, err)

	svc := NewLifecycleService(tasks, blobs)
	summary, err := svc.DeleteTask(ctx, testUser, task)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.BlobsDeleted)
	assert.Empty(t, summary.Warnings)
	_, err = tasks.GetTask(ctx, testUser, "task-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteTaskRecordsBlobFailuresWithoutAborting(t *testing.T) {
	tasks := storetest.NewMemTaskStore()
	blobs := storetest.NewMemBlobStore()
	urls := seedTask(t, tasks, blobs, "task-1", 1, 3)

	blobs.FailDelete[urls[1]] = errors.New("storage unavailable")

	ctx := context.Background()
	task, err := tasks.GetTask(ctx, testUser, "task-1")
	require.NoError(t, err)

	svc := NewLifecycleService(tasks, blobs)
	summary, err := svc.DeleteTask(ctx, testUser, task)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.BlobsDeleted)
	require.Len(t, summary.Warnings, 1)
	assert.Equal(t, urls[1], summary.Warnings[0].ID)

	// The document batch still committed.
	_, err = tasks.GetTask(ctx, testUser, "task-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteTaskBatchFailureReportsPartialCleanup(t *testing.T) {
	tasks := storetest.NewMemTaskStore()
	blobs := storetest.NewMemBlobStore()
	urls := seedTask(t, tasks, blobs, "task-1", 1, 2)
	tasks.FailBatch = true

	ctx := context.Background()
	task, err := tasks.GetTask(ctx, testUser, "task-1")
	require.NoError(t, err)

	svc := NewLifecycleService(tasks, blobs)
	_, err = svc.DeleteTask(ctx, testUser, task)

	var cleanupErr *PartialCleanupError
	require.ErrorAs(t, err, &cleanupErr)
	assert.Equal(t, 2, cleanupErr.BlobsDeleted)

	// Documents survive, blobs are already gone; a retry is safe.
	_, err = tasks.GetTask(ctx, testUser, "task-1")
	require.NoError(t, err)
	for _, url := range urls {
		assert.False(t, blobs.Exists(url))
	}
}

func TestDeleteTaskFailedListingAbortsBeforeAnyDeletion(t *testing.T) {
	tasks := storetest.NewMemTaskStore()
	blobs := storetest.NewMemBlobStore()
	urls := seedTask(t, tasks, blobs, "task-1", 1, 1)
	tasks.FailList = true

	ctx := context.Background()
	svc := NewLifecycleService(tasks, blobs)
	_, err := svc.DeleteTask(ctx, testUser, &model.MotoTask{ID: "task-1"})
	require.Error(t, err)

	tasks.FailList = false
	_, err = tasks.GetTask(ctx, testUser, "task-1")
	require.NoError(t, err)
	assert.True(t, blobs.Exists(urls[0]))
}

func TestMigrateTaskMovesTreeAndPreservesContent(t *testing.T) {
	tasks := storetest.NewMemTaskStore()
	blobs := storetest.NewMemBlobStore()
	seedTask(t, tasks, blobs, "task-old", 2, 1)

	ctx := context.Background()
	oldTask, err := tasks.GetTask(ctx, testUser, "task-old")
	require.NoError(t, err)
	oldSubs, err := tasks.ListSubmissions(ctx, testUser, "task-old")
	require.NoError(t, err)

	newTask := *oldTask
	newTask.ID = "task-new"
	newTask.IsPublic = true
	newTask.FormLink = "https://vcheck.test/verify/" + testUser + "/task-new"

	svc := NewLifecycleService(tasks, blobs)
	summary, err := svc.MigrateTask(ctx, testUser, oldTask, &newTask)
	require.NoError(t, err)
	assert.Equal(t, "task-new", summary.NewTaskID)
	assert.Equal(t, 2, summary.SubmissionsMoved)

	migrated, err := tasks.GetTask(ctx, testUser, "task-new")
	require.NoError(t, err)
	assert.Equal(t, oldTask.VehicleNumber, migrated.VehicleNumber)
	assert.Equal(t, oldTask.Name, migrated.Name)
	assert.Equal(t, oldTask.RegNumber, migrated.RegNumber)
	assert.Equal(t, oldTask.TaskDescription, migrated.TaskDescription)
	assert.Equal(t, oldTask.Status, migrated.Status)
	assert.True(t, migrated.CreatedAt.Equal(oldTask.CreatedAt), "createdAt must be preserved")
	assert.True(t, migrated.UpdatedAt.After(oldTask.UpdatedAt), "updatedAt must be refreshed")

	_, err = tasks.GetTask(ctx, testUser, "task-old")
	assert.ErrorIs(t, err, store.ErrNotFound)

	movedSubs, err := tasks.ListSubmissions(ctx, testUser, "task-new")
	require.NoError(t, err)
	require.Len(t, movedSubs, len(oldSubs))
	assert.ElementsMatch(t, oldSubs, movedSubs)

	remaining, err := tasks.ListSubmissions(ctx, testUser, "task-old")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestMigrateTaskBatchFailureLeavesStateUntouched(t *testing.T) {
	tasks := storetest.NewMemTaskStore()
	blobs := storetest.NewMemBlobStore()
	seedTask(t, tasks, blobs, "task-old", 1, 1)
	tasks.FailBatch = true

	ctx := context.Background()
	oldTask, err := tasks.GetTask(ctx, testUser, "task-old")
	require.NoError(t, err)
	subsBefore, err := tasks.ListSubmissions(ctx, testUser, "task-old")
	require.NoError(t, err)

	newTask := *oldTask
	newTask.ID = "task-new"

	svc := NewLifecycleService(tasks, blobs)
	_, err = svc.MigrateTask(ctx, testUser, oldTask, &newTask)

	var txErr *StoreTransactionError
	require.ErrorAs(t, err, &txErr)

	_, err = tasks.GetTask(ctx, testUser, "task-new")
	assert.ErrorIs(t, err, store.ErrNotFound)
	stillThere, err := tasks.GetTask(ctx, testUser, "task-old")
	require.NoError(t, err)
	assert.Equal(t, oldTask, stillThere)
	subsAfter, err := tasks.ListSubmissions(ctx, testUser, "task-old")
	require.NoError(t, err)
	assert.ElementsMatch(t, subsBefore, subsAfter)
	assert.Equal(t, 1, tasks.TaskCount(testUser))
}

func TestMigrateTaskRejectsSameId(t *testing.T) {
	tasks := storetest.NewMemTaskStore()
	blobs := storetest.NewMemBlobStore()
	seedTask(t, tasks, blobs, "task-1", 0, 0)

	ctx := context.Background()
	oldTask, err := tasks.GetTask(ctx, testUser, "task-1")
	require.NoError(t, err)

	newTask := *oldTask

	svc := NewLifecycleService(tasks, blobs)
	_, err = svc.MigrateTask(ctx, testUser, oldTask, &newTask)

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
