package model

import (
	"time"
)

// Task status values as shown on the dashboard.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

type MotoTask struct {
	ID              string    `firestore:"id" json:"id"`
	VehicleNumber   string    `firestore:"vehicleNumber" json:"vehicleNumber"`
	Name            string    `firestore:"name" json:"name"`
	RegNumber       string    `firestore:"regNumber" json:"regNumber"`
	TaskDescription string    `firestore:"taskDescription,omitempty" json:"taskDescription,omitempty"`
	Status          string    `firestore:"status" json:"status"`
	IsPublic        bool      `firestore:"isPublic" json:"isPublic"`
	FormLink        string    `firestore:"formLink,omitempty" json:"formLink,omitempty"`
	CreatedAt       time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt       time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
