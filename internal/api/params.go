package api

import (
	"fmt"
	"net/http"
	"strconv"

	"lendit/internal/models"
)

// sharerID extracts the acting user from the X-Sharer-User-Id header.
func sharerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", userIDHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s header must be a positive integer", userIDHeader)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

// parsePage reads from/size query parameters. The offset is converted to a
// page index by integer division, so a from inside a page snaps to that
// page's start.
func parsePage(r *http.Request) (models.Page, error) {
	from := 0
	size := models.DefaultPageSize

	if raw := r.URL.Query().Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return models.Page{}, fmt.Errorf("from must be a non-negative integer")
		}
		from = v
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return models.Page{}, fmt.Errorf("size must be a positive integer")
		}
		size = v
	}

	return models.NewPageFromOffset(from, size), nil
}
