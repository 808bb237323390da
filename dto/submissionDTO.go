package dto

type CreateSubmissionRequest struct {
	VerifierName string   `json:"verifierName" binding:"required"`
	Notes        string   `json:"notes" binding:"required"`
	Photos       []string `json:"photos"` // base64 data URLs captured by the verify page
}
