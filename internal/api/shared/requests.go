package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ErrUnsupportedMediaType is returned for bodies that are neither JSON nor form data.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// DecodeJSON decodes the request body into the given struct. Unknown fields
// are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// IsForm reports whether the request carries URL-encoded or multipart form data.
func IsForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// IsJSON reports whether the request body is declared as JSON.
func IsJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// ParseForm parses a form body of either supported encoding.
func ParseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxBodyBytes)
	}
	return r.ParseForm()
}
