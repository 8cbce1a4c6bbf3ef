package models

import (
	"time"

	"github.com/google/uuid"
)

// TrackingMetadata is the record-store side of the note's send/download
// state. The archived object carries a best-effort mirror of the same
// fields in its object metadata; the record store is the source of truth.
type TrackingMetadata struct {
	NoteID     uuid.UUID `gorm:"type:uuid;primary_key" json:"noteId"`
	SendCount  int       `gorm:"default:1" json:"sendCount"`
	Downloaded bool      `gorm:"default:false" json:"downloaded"`
	LastSentAt time.Time `json:"lastSentAt"`
}
