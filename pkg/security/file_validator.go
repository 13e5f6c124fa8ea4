package security

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrInvalidPhoto is returned for uploads that are not an accepted image.
var ErrInvalidPhoto = errors.New("invalid photo")

// Magic byte prefixes for accepted photo formats.
var photoSignatures = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}},
	".webp": {{0x52, 0x49, 0x46, 0x46}},
}

var photoMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidatePhoto checks a profile photo in three layers: extension whitelist,
// magic bytes matching the extension, then the sniffed MIME type. It returns
// the detected MIME type.
func ValidatePhoto(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", errors.Join(ErrInvalidPhoto, errors.New("file has no extension"))
	}
	signatures, ok := photoSignatures[ext]
	if !ok {
		return "", errors.Join(ErrInvalidPhoto, errors.New("file extension not allowed: "+ext))
	}

	matched := false
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			matched = true
			break
		}
	}
	if !matched {
		return "", errors.Join(ErrInvalidPhoto, errors.New("file content does not match extension"))
	}

	mime := http.DetectContentType(data)
	if !photoMIMETypes[mime] {
		return "", errors.Join(ErrInvalidPhoto, errors.New("content type not allowed: "+mime))
	}
	return mime, nil
}

// AllowedPhotoExtensions lists the accepted extensions for error messages.
func AllowedPhotoExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}
