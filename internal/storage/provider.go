// Package storage reads and writes Markdown notes in the vault directory.
package storage

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/starford/brainbrew/internal/models"
)

// Provider is the interface for vault file operations. Paths are relative to
// the vault root.
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.NoteMetadata, error)
	Read(path string) ([]byte, error)
	// Write replaces the file atomically, creating parent directories.
	Write(path string, content []byte) error
	Delete(path string) error
}

// Checksum returns the hex SHA-256 of data. It doubles as the note's ETag.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
