package services

import (
	"context"
	"errors"

	"vcheckapp/model"
	"vcheckapp/store"
)

// GetOwner resolves the owner document for an authenticated user id.
func GetOwner(ctx context.Context, tasks store.TaskStore, userID string) (*model.User, error) {
	user, err := tasks.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.New("user not found")
	}
	return user, err
}
