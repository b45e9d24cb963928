package models

import (
	"errors"
	"time"
)

// SubmissionStatus is the triage state of a lead.
type SubmissionStatus string

const (
	StatusPending    SubmissionStatus = "pending"
	StatusInProgress SubmissionStatus = "in_progress"
	StatusAnswered   SubmissionStatus = "answered"
	StatusSpecial    SubmissionStatus = "special"
	StatusDone       SubmissionStatus = "done"
)

// SubmissionStatuses lists every valid status in display order.
var SubmissionStatuses = []SubmissionStatus{
	StatusPending,
	StatusInProgress,
	StatusAnswered,
	StatusSpecial,
	StatusDone,
}

// Valid reports whether the status belongs to the enumeration.
func (s SubmissionStatus) Valid() bool {
	for _, status := range SubmissionStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// legacyStatuses maps the Spanish values used by the first admin dashboard.
var legacyStatuses = map[SubmissionStatus]SubmissionStatus{
	"pendiente":  StatusPending,
	"proceso":    StatusInProgress,
	"contestado": StatusAnswered,
	"especial":   StatusSpecial,
	"terminado":  StatusDone,
}

// Canonical returns the enumeration value for a legacy Spanish status, or s unchanged.
func (s SubmissionStatus) Canonical() SubmissionStatus {
	if canonical, ok := legacyStatuses[s]; ok {
		return canonical
	}
	return s
}

// ErrSubmissionNotFound is returned by stores when no record matches the identifier.
var ErrSubmissionNotFound = errors.New("submission not found")

// Submission is a lead captured by the public contact form.
// Wire names are Spanish for compatibility with the existing frontend.
type Submission struct {
	ID           string           `db:"id" bson:"_id" json:"_id"`
	Name         string           `db:"nombre" bson:"nombre" json:"nombre"`
	Phone        string           `db:"telefono" bson:"telefono" json:"telefono"`
	Email        string           `db:"email" bson:"email" json:"email"`
	Measurements string           `db:"medidas" bson:"medidas" json:"medidas"`
	Status       SubmissionStatus `db:"estado" bson:"estado" json:"estado"`
	ReceivedAt   time.Time        `db:"recibido_en" bson:"recibidoEn" json:"recibidoEn"`
}
