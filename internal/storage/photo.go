package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// MaxPhotoBytes bounds a profile photo upload.
const MaxPhotoBytes = 2 << 20

var photoExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// SavePhoto sniffs the upload, stores it under photos/<owner>/<name><ext>
// and returns the URL to record on the profile.
func SavePhoto(bs BlobStore, owner, name string, r io.Reader) (string, error) {
	buf, err := io.ReadAll(io.LimitReader(r, MaxPhotoBytes+1))
	if err != nil {
		return "", err
	}
	if len(buf) > MaxPhotoBytes {
		return "", ErrTooLarge
	}
	ext, ok := photoExt[http.DetectContentType(buf)]
	if !ok {
		return "", ErrNotImage
	}
	key, err := bs.Put(fmt.Sprintf("photos/%s/%s%s", owner, name, ext), bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	return bs.URL(key), nil
}
