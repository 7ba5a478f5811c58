package storage

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := ReportKey("abc")
	if got, err := s.Put(key, strings.NewReader("%PDF-1.3")); err != nil || got != key {
		t.Fatalf("Put = %q, %v", got, err)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "%PDF-1.3" {
		t.Fatalf("content = %q", b)
	}
}

func TestFSStoreMissingAndEscaping(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get("reports/none.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.Put("", strings.NewReader("x")); err == nil {
		t.Fatal("empty key accepted")
	}
	// escaping keys are confined to the base directory
	if _, err := s.Put("../../outside.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("confined put: %v", err)
	}
	rc, err := s.Get("outside.txt")
	if err != nil {
		t.Fatalf("confined get: %v", err)
	}
	rc.Close()
}
