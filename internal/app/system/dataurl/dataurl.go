// Package dataurl decodes the base64 data URLs that browsers produce
// from MediaRecorder blobs and canvas exports.
//
// Only the form captured media actually uses is accepted:
//
//	data:<mime-type>;base64,<payload>
package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	// ErrNotDataURL is returned when the input is not a data: URL.
	ErrNotDataURL = errors.New("dataurl: not a data URL")

	// ErrUnsupportedEncoding is returned when the data URL is not base64-encoded.
	ErrUnsupportedEncoding = errors.New("dataurl: not base64 encoded")

	// ErrInvalidPayload is returned when the base64 payload does not decode.
	ErrInvalidPayload = errors.New("dataurl: invalid base64 payload")
)

const (
	scheme       = "data:"
	base64Marker = ";base64,"
)

// Parsed holds the decoded contents of a data URL.
type Parsed struct {
	MIMEType string
	Data     []byte
}

// Parse decodes a "data:<mime>;base64,<payload>" URL.
// The MIME type is returned lowercased with surrounding whitespace removed.
func Parse(s string) (*Parsed, error) {
	if !strings.HasPrefix(s, scheme) {
		return nil, ErrNotDataURL
	}
	rest := s[len(scheme):]

	idx := strings.Index(rest, base64Marker)
	if idx < 0 {
		return nil, ErrUnsupportedEncoding
	}

	mimeType := strings.ToLower(strings.TrimSpace(rest[:idx]))
	payload := rest[idx+len(base64Marker):]

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	return &Parsed{MIMEType: mimeType, Data: data}, nil
}

// IsDataURL reports whether s looks like a data: URL without decoding it.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, scheme)
}
