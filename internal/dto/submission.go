package dto

import "github.com/noah-isme/vidrios-leads-api/internal/models"

// CreateSubmissionRequest is the public contact form payload.
type CreateSubmissionRequest struct {
	Name         string `json:"nombre" validate:"required"`
	Phone        string `json:"telefono" validate:"required"`
	Email        string `json:"email" validate:"required"`
	Measurements string `json:"medidas"`
}

// UpdateStatusRequest changes the triage state of a submission.
type UpdateStatusRequest struct {
	Status string `json:"estado"`
}

// SubmissionListResponse wraps the admin listing.
type SubmissionListResponse struct {
	Items []models.Submission `json:"items"`
}

// SubmissionResponse wraps a single submission.
type SubmissionResponse struct {
	Item *models.Submission `json:"item"`
}

// LoginResponse is returned after a successful login; the credential travels in the cookie.
type LoginResponse struct {
	Message string          `json:"message"`
	User    models.UserInfo `json:"user"`
}

// MeResponse describes the current session.
type MeResponse struct {
	User models.UserInfo `json:"user"`
}
