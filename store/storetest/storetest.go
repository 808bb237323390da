// Package storetest provides in-memory TaskStore and BlobStore
// implementations for tests. Both honor the production contracts: batch
// operations apply all-or-nothing and deleting an absent blob reports
// store.ErrBlobNotFound.
package storetest

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"vcheckapp/model"
	"vcheckapp/store"
)

type MemTaskStore struct {
	mu    sync.Mutex
	users map[string]model.User
	tasks map[string]map[string]model.MotoTask
	subs  map[string]map[string]map[string]model.Submission

	// FailBatch forces DeleteTaskTree and MoveTaskTree commits to fail
	// without touching any document.
	FailBatch bool
	// FailList forces ListSubmissions to fail.
	FailList bool
}

func NewMemTaskStore() *MemTaskStore {
	return &MemTaskStore{
		users: make(map[string]model.User),
		tasks: make(map[string]map[string]model.MotoTask),
		subs:  make(map[string]map[string]map[string]model.Submission),
	}
}

func (s *MemTaskStore) AddUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
}

func (s *MemTaskStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *MemTaskStore) GetTask(ctx context.Context, userID, taskID string) (*model.MotoTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[userID][taskID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &task, nil
}

func (s *MemTaskStore) ListTasks(ctx context.Context, userID string) ([]model.MotoTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.MotoTask
	for _, task := range s.tasks[userID] {
		out = append(out, task)
	}
	return out, nil
}

func (s *MemTaskStore) CreateTask(ctx context.Context, userID string, task *model.MotoTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks[userID] == nil {
		s.tasks[userID] = make(map[string]model.MotoTask)
	}
	s.tasks[userID][task.ID] = *task
	return nil
}

func (s *MemTaskStore) UpdateTask(ctx context.Context, userID, taskID string, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[userID][taskID]
	if !ok {
		return store.ErrNotFound
	}
	for field, value := range updates {
		switch field {
		case "vehicleNumber":
			task.VehicleNumber = value.(string)
		case "name":
			task.Name = value.(string)
		case "regNumber":
			task.RegNumber = value.(string)
		case "taskDescription":
			task.TaskDescription = value.(string)
		case "status":
			task.Status = value.(string)
		case "isPublic":
			task.IsPublic = value.(bool)
		case "formLink":
			task.FormLink = value.(string)
		case "updatedAt":
			task.UpdatedAt = value.(time.Time)
		default:
			return fmt.Errorf("unknown field %q", field)
		}
	}
	s.tasks[userID][taskID] = task
	return nil
}

func (s *MemTaskStore) ListSubmissions(ctx context.Context, userID, taskID string) ([]model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailList {
		return nil, fmt.Errorf("listing unavailable")
	}
	var out []model.Submission
	for _, sub := range s.subs[userID][taskID] {
		out = append(out, sub)
	}
	return out, nil
}

func (s *MemTaskStore) CreateSubmission(ctx context.Context, userID, taskID string, sub *model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs[userID] == nil {
		s.subs[userID] = make(map[string]map[string]model.Submission)
	}
	if s.subs[userID][taskID] == nil {
		s.subs[userID][taskID] = make(map[string]model.Submission)
	}
	s.subs[userID][taskID][sub.ID] = *sub
	return nil
}

func (s *MemTaskStore) DeleteTaskTree(ctx context.Context, userID, taskID string, submissionIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailBatch {
		return fmt.Errorf("batch commit failed")
	}
	for _, subID := range submissionIDs {
		delete(s.subs[userID][taskID], subID)
	}
	delete(s.subs[userID], taskID)
	delete(s.tasks[userID], taskID)
	return nil
}

func (s *MemTaskStore) MoveTaskTree(ctx context.Context, userID, oldTaskID string, newTask *model.MotoTask, submissions []model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailBatch {
		return fmt.Errorf("batch commit failed")
	}
	if s.tasks[userID] == nil {
		s.tasks[userID] = make(map[string]model.MotoTask)
	}
	s.tasks[userID][newTask.ID] = *newTask
	if s.subs[userID] == nil {
		s.subs[userID] = make(map[string]map[string]model.Submission)
	}
	newSubs := make(map[string]model.Submission, len(submissions))
	for _, sub := range submissions {
		newSubs[sub.ID] = sub
	}
	s.subs[userID][newTask.ID] = newSubs
	delete(s.subs[userID], oldTaskID)
	delete(s.tasks[userID], oldTaskID)
	return nil
}

// TaskCount reports how many tasks a user has, for state comparisons.
func (s *MemTaskStore) TaskCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks[userID])
}

type MemBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailDelete and FailFetch force per-URL failures.
	FailDelete map[string]error
	FailFetch  map[string]error
}

func NewMemBlobStore() *MemBlobStore {
	return &MemBlobStore{
		objects:    make(map[string][]byte),
		FailDelete: make(map[string]error),
		FailFetch:  make(map[string]error),
	}
}

func (s *MemBlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	photoURL := fmt.Sprintf("https://blob.test/v0/b/test-bucket/o/%s?alt=media", url.PathEscape(path))
	s.objects[photoURL] = data
	return photoURL, nil
}

func (s *MemBlobStore) Delete(ctx context.Context, photoURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.FailDelete[photoURL]; ok {
		return err
	}
	if _, ok := s.objects[photoURL]; !ok {
		return store.ErrBlobNotFound
	}
	delete(s.objects, photoURL)
	return nil
}

func (s *MemBlobStore) Fetch(ctx context.Context, photoURL string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.FailFetch[photoURL]; ok {
		return nil, err
	}
	data, ok := s.objects[photoURL]
	if !ok {
		return nil, fmt.Errorf("failed to fetch image: 404 Not Found")
	}
	return data, nil
}

// Exists reports whether a blob is still live.
func (s *MemBlobStore) Exists(photoURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[photoURL]
	return ok
}
