// Package models defines the domain types for BrainBrew.
package models

import "time"

// NoteMetadata is a lightweight representation of a vault file returned by
// storage listings.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
