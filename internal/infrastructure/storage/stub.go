package storage

import (
	"context"
	"errors"
	"time"
)

// StubReceiptStorage serves deterministic URLs without a storage backend.
// Used in development and tests.
type StubReceiptStorage struct {
	BaseURL string
	Expiry  time.Duration
}

// NewStubReceiptStorage creates a stub receipt storage
func NewStubReceiptStorage() *StubReceiptStorage {
	return &StubReceiptStorage{
		BaseURL: "https://storage.example.com",
		Expiry:  15 * time.Minute,
	}
}

// PresignReceiptURL returns a stub download URL for the key
func (s *StubReceiptStorage) PresignReceiptURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(s.Expiry)
	return s.BaseURL + "/download/" + key + "?expires=" + expiresAt.Format(time.RFC3339), nil
}
