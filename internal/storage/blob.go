package storage

import (
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

// BlobStore holds generated report files.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)       // ErrNotFound when absent
}

// ReportKey is where the PDF report of a session is stored.
func ReportKey(sessionID string) string {
	return "reports/" + sessionID + ".pdf"
}
