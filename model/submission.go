package model

import "time"

// MaxSubmissionPhotos caps how many photos one verifier can attach.
const MaxSubmissionPhotos = 10

type Submission struct {
	ID           string    `firestore:"id" json:"id"`
	VerifierName string    `firestore:"verifierName" json:"verifierName"`
	Notes        string    `firestore:"notes" json:"notes"`
	PhotoUrls    []string  `firestore:"photoUrls" json:"photoUrls"`
	CreatedAt    time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
}
