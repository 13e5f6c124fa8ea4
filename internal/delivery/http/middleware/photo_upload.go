package middleware

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"matrimony-backend/internal/domain"
	"matrimony-backend/pkg/apperror"
	"matrimony-backend/pkg/imaging"
	"matrimony-backend/pkg/logger"
	"matrimony-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	// PhotosFormField is the multipart field carrying profile photos.
	PhotosFormField = "photos"
	photosKey       = "UploadedPhotos"
)

// PhotoUploadConfig bounds the photos accepted on one request.
type PhotoUploadConfig struct {
	MaxPhotos    int
	MaxFileBytes int64
	Limiter      *security.UploadLimiter
}

// PhotoUpload parses the multipart photos, validates each one, re-encodes
// it as a compressed JPEG and stores the result for the handler. Requests
// without photos pass through untouched and skip the upload limiter.
func PhotoUpload(cfg PhotoUploadConfig) gin.HandlerFunc {
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = 5 << 20
	}
	if cfg.MaxPhotos <= 0 {
		cfg.MaxPhotos = 6
	}
	maxMemory := cfg.MaxFileBytes * int64(cfg.MaxPhotos+1)

	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMemory+(1<<20))
		if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
			if errors.Is(err, http.ErrNotMultipart) {
				c.Next()
				return
			}
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abortUpload(c, http.StatusRequestEntityTooLarge, "Request body is too large", "body_too_large")
				return
			}
			abortUpload(c, http.StatusBadRequest, "Request must be multipart/form-data", "bad_multipart")
			return
		}

		var files []*multipart.FileHeader
		if c.Request.MultipartForm != nil {
			files = c.Request.MultipartForm.File[PhotosFormField]
		}
		if len(files) == 0 {
			c.Next()
			return
		}
		if len(files) > cfg.MaxPhotos {
			abortUpload(c, http.StatusBadRequest, fmt.Sprintf("At most %d photos may be uploaded", cfg.MaxPhotos), "too_many_files")
			return
		}

		if cfg.Limiter != nil {
			allowed, retryAfter, err := cfg.Limiter.Allow(c.Request.Context(), c.ClientIP())
			if err != nil {
				logger.Log.Warn("Upload limiter unavailable", "error", err)
			}
			if !allowed {
				c.Header("Retry-After", strconv.Itoa(retryAfter))
				abortUpload(c, http.StatusTooManyRequests, "Too many uploads. Please try again later.", "upload_rate_limited")
				return
			}
		}

		photos := make([]domain.PhotoUpload, 0, len(files))
		for _, fh := range files {
			if fh.Size > cfg.MaxFileBytes {
				abortUpload(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Photo %q exceeds %d MB", fh.Filename, cfg.MaxFileBytes>>20), "file_too_large")
				return
			}
			data, err := readPart(fh)
			if err != nil {
				_ = c.Error(apperror.Internal(err))
				c.Abort()
				return
			}
			if _, err := security.ValidatePhoto(fh.Filename, data); err != nil {
				abortUpload(c, http.StatusBadRequest, fmt.Sprintf("Photo %q is not a valid image", fh.Filename), "invalid_photo")
				return
			}
			compressed, err := imaging.Compress(data, imaging.DefaultMaxDimension, imaging.DefaultQuality)
			if err != nil {
				abortUpload(c, http.StatusBadRequest, fmt.Sprintf("Photo %q could not be decoded", fh.Filename), "decode_failed")
				return
			}
			photos = append(photos, domain.PhotoUpload{
				Filename:    jpegName(fh.Filename),
				ContentType: "image/jpeg",
				Data:        compressed,
			})
		}

		c.Set(photosKey, photos)
		c.Next()
	}
}

// UploadedPhotos returns the photos prepared by PhotoUpload, if any.
func UploadedPhotos(c *gin.Context) []domain.PhotoUpload {
	v, ok := c.Get(photosKey)
	if !ok {
		return nil
	}
	photos, _ := v.([]domain.PhotoUpload)
	return photos
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func jpegName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		base = "photo"
	}
	return base + ".jpg"
}

func abortUpload(c *gin.Context, code int, msg, reason string) {
	appErr := apperror.BadRequest(msg)
	switch code {
	case http.StatusRequestEntityTooLarge:
		appErr = apperror.PayloadTooLarge(msg)
	case http.StatusTooManyRequests:
		appErr = apperror.TooManyRequests(msg)
	}

	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventUploadRejected,
		SubjectType: "ip",
		IP:          c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
		RequestID:   c.GetString(RequestIDKey),
		Details:     map[string]interface{}{"reason": reason, "path": c.FullPath()},
	})
	_ = c.Error(appErr)
	c.Abort()
}
