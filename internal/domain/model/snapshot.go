package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Snapshot is an immutable record of a state at a point in time.
// The payload is cloned on construction so later mutation of the
// source never reaches the stored copy.
type Snapshot struct {
	ID      string    `json:"id"`
	TakenAt time.Time `json:"ts"`
	Type    StateType `json:"state"`
	Data    Payload   `json:"data"`
}

// NewSnapshot captures a state type and payload under a fresh ULID
func NewSnapshot(t StateType, p Payload) Snapshot {
	return Snapshot{
		ID:      NewSnapshotID(),
		TakenAt: time.Now().UTC(),
		Type:    t,
		Data:    p.Clone(),
	}
}

// NewSnapshotID generates a new snapshot ID using ULID
// Format: ULID (e.g., 01JB6X8Y2K9FQR4T3VWHGP5M2C)
func NewSnapshotID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return id.String()
}
