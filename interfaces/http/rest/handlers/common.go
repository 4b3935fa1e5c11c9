package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"flock-backend/pkg/common"
)

// validate checks request DTOs against their struct tags.
var validate = validator.New()

// bearerToken returns the raw session token from the Authorization
// header, or "" when absent.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return strings.TrimSpace(parts[1])
	}
	return authHeader
}

// pageLimit parses the limit query parameter and clamps it to the
// allowed page-size range.
func pageLimit(r *http.Request) int32 {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return common.DefaultPageSize
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return common.DefaultPageSize
	}
	return common.ClampPageSize(int32(n))
}

// pageCursor returns the opaque cursor query parameter, if any.
func pageCursor(r *http.Request) string {
	return r.URL.Query().Get("cursor")
}
