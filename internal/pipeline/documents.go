package pipeline

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/regsplit/internal/segment"
)

var (
	// ErrNoDocuments is returned when the input directory holds nothing to process.
	ErrNoDocuments = errors.New("no matching documents")
	// ErrAllFailed is returned when documents were found but none was written.
	ErrAllFailed = errors.New("every document failed")
	// ErrDuplicateLanguage marks a second document for an already seen language.
	ErrDuplicateLanguage = errors.New("duplicate language")
)

// Status is the outcome of one document.
type Status string

const (
	StatusWritten Status = "written"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
)

// DocumentResult records what happened to one input document.
type DocumentResult struct {
	File   string `json:"file"`
	Lang   string `json:"lang"`
	Title  string `json:"title,omitempty"`
	Output string `json:"output,omitempty"`

	Status Status `json:"status"`
	Phase  string `json:"phase,omitempty"` // where a failed document stopped
	Err    error  `json:"-"`

	Rows     int           `json:"rows"`
	Stats    segment.Stats `json:"-"`
	Warnings []string      `json:"warnings,omitempty"`

	// Fallback is the language whose rules were used when Lang had none.
	Fallback string `json:"fallback,omitempty"`

	ContentHash string        `json:"content_hash,omitempty"`
	Duration    time.Duration `json:"duration"`
}

func (d *DocumentResult) fail(phase string, err error) {
	d.Status = StatusFailed
	d.Phase = phase
	d.Err = err
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
