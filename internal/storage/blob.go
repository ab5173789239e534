package storage

import (
	"errors"
	"io"
)

var (
	ErrInvalidKey = errors.New("storage: invalid key")
	ErrNotImage   = errors.New("storage: not an image")
	ErrTooLarge   = errors.New("storage: file too large")
)

// BlobStore keeps uploaded files such as profile photos.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	URL(key string) string // path the HTTP API serves the blob from
}
