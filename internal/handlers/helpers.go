package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/socio-irdl/socio/backend/internal/models"
)

// Page sizes applied uniformly across listings: posts paginate by 10,
// people by 20. Filtering always happens before the page window is cut.
const (
	postPageSize   = 10
	peoplePageSize = 20
)

// getClaimsFromContext returns the JWT claims the auth middleware stored,
// or nil when the request is unauthenticated.
func getClaimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// getPageParam reads the 1-indexed page query parameter, defaulting to 1.
func getPageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// paginate cuts the 1-indexed page window out of an already-filtered slice.
func paginate[T any](items []T, page, limit int) []T {
	skip := (page - 1) * limit
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// saveUploadedFile stores a multipart upload under dir and returns the
// generated filename. Returns "" without error when the field is absent.
func saveUploadedFile(c echo.Context, field, dir string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return "", nil
		}
		return "", err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := strconv.FormatInt(time.Now().UnixNano(), 10) + filepath.Ext(fileHeader.Filename)
	if err := writeFile(src, filepath.Join(dir, filename)); err != nil {
		return "", err
	}
	return filename, nil
}

func writeFile(src multipart.File, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}
