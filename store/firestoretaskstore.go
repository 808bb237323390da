package store

import (
	"context"
	"fmt"

	"vcheckapp/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreTaskStore implements TaskStore on top of Firestore.
type FirestoreTaskStore struct {
	client *firestore.Client
}

func NewFirestoreTaskStore(client *firestore.Client) *FirestoreTaskStore {
	return &FirestoreTaskStore{client: client}
}

func (s *FirestoreTaskStore) userRef(userID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(userID)
}

func (s *FirestoreTaskStore) taskRef(userID, taskID string) *firestore.DocumentRef {
	return s.userRef(userID).Collection("motoTasks").Doc(taskID)
}

func (s *FirestoreTaskStore) submissionRef(userID, taskID, subID string) *firestore.DocumentRef {
	return s.taskRef(userID, taskID).Collection("submissions").Doc(subID)
}

func (s *FirestoreTaskStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	doc, err := s.userRef(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to parse user data: %w", err)
	}
	user.UserID = doc.Ref.ID
	return &user, nil
}

func (s *FirestoreTaskStore) GetTask(ctx context.Context, userID, taskID string) (*model.MotoTask, error) {
	doc, err := s.taskRef(userID, taskID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var task model.MotoTask
	if err := doc.DataTo(&task); err != nil {
		return nil, fmt.Errorf("failed to parse task data: %w", err)
	}
	task.ID = doc.Ref.ID
	return &task, nil
}

func (s *FirestoreTaskStore) ListTasks(ctx context.Context, userID string) ([]model.MotoTask, error) {
	iter := s.userRef(userID).Collection("motoTasks").Documents(ctx)

	var tasks []model.MotoTask
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var task model.MotoTask
		if err := doc.DataTo(&task); err != nil {
			return nil, fmt.Errorf("failed to parse task data: %w", err)
		}
		task.ID = doc.Ref.ID
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *FirestoreTaskStore) CreateTask(ctx context.Context, userID string, task *model.MotoTask) error {
	_, err := s.taskRef(userID, task.ID).Set(ctx, task)
	return err
}

func (s *FirestoreTaskStore) UpdateTask(ctx context.Context, userID, taskID string, updates map[string]interface{}) error {
	var fsUpdates []firestore.Update
	for field, value := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{Path: field, Value: value})
	}

	_, err := s.taskRef(userID, taskID).Update(ctx, fsUpdates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreTaskStore) ListSubmissions(ctx context.Context, userID, taskID string) ([]model.Submission, error) {
	iter := s.taskRef(userID, taskID).Collection("submissions").Documents(ctx)

	var subs []model.Submission
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var sub model.Submission
		if err := doc.DataTo(&sub); err != nil {
			return nil, fmt.Errorf("failed to parse submission data: %w", err)
		}
		sub.ID = doc.Ref.ID
		subs = append(subs, sub)
	}
	return subs, nil
}

func (s *FirestoreTaskStore) CreateSubmission(ctx context.Context, userID, taskID string, sub *model.Submission) error {
	_, err := s.submissionRef(userID, taskID, sub.ID).Set(ctx, sub)
	return err
}

func (s *FirestoreTaskStore) DeleteTaskTree(ctx context.Context, userID, taskID string, submissionIDs []string) error {
	batch := s.client.Batch()
	for _, subID := range submissionIDs {
		batch.Delete(s.submissionRef(userID, taskID, subID))
	}
	batch.Delete(s.taskRef(userID, taskID))

	_, err := batch.Commit(ctx)
	return err
}

func (s *FirestoreTaskStore) MoveTaskTree(ctx context.Context, userID, oldTaskID string, newTask *model.MotoTask, submissions []model.Submission) error {
	batch := s.client.Batch()
	batch.Set(s.taskRef(userID, newTask.ID), newTask)
	for i := range submissions {
		sub := submissions[i]
		batch.Set(s.submissionRef(userID, newTask.ID, sub.ID), &sub)
		batch.Delete(s.submissionRef(userID, oldTaskID, sub.ID))
	}
	batch.Delete(s.taskRef(userID, oldTaskID))

	_, err := batch.Commit(ctx)
	return err
}
