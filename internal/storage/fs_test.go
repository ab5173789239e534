package storage

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key, err := s.Put("a/b.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatal(err)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
	if s.URL(key) != "/assets/a/b.txt" {
		t.Fatalf("url = %s", s.URL(key))
	}
}

func TestFSStoreRejectsEscapes(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"", "../x", "a/../../x", `..\x`} {
		if _, err := s.Put(k, strings.NewReader("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Put(%q) err = %v", k, err)
		}
		if _, err := s.Get(k); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Get(%q) err = %v", k, err)
		}
	}
}

func TestSavePhoto(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	url, err := SavePhoto(s, "s1", "avatar", bytes.NewReader(pngPixel))
	if err != nil {
		t.Fatal(err)
	}
	if url != "/assets/photos/s1/avatar.png" {
		t.Fatalf("url = %s", url)
	}
	if _, err := SavePhoto(s, "s1", "avatar", strings.NewReader("plain text")); !errors.Is(err, ErrNotImage) {
		t.Fatalf("text upload: %v", err)
	}
	big := bytes.Repeat([]byte{0}, MaxPhotoBytes+1)
	if _, err := SavePhoto(s, "s1", "avatar", bytes.NewReader(big)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("big upload: %v", err)
	}
}
