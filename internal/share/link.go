// Package share encodes analyzed text into a shareable link and back. The
// text travels base64-encoded in the "t" query parameter.
package share

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Param is the query parameter carrying the encoded text
const Param = "t"

// Encode returns the base64 form of text's UTF-8 bytes
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Decode reverses Encode. Padding is optional, so links whose trailing '='
// were stripped still decode. It fails on malformed base64 and on payloads
// that are not valid UTF-8. Spaces are read as '+', which query decoding
// produces when a link was pasted without escaping.
func Decode(value string) (string, bool) {
	value = strings.ReplaceAll(strings.TrimSpace(value), " ", "+")
	value = strings.TrimRight(value, "=")
	if value == "" {
		return "", false
	}
	data, err := base64.RawStdEncoding.DecodeString(value)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// URL sets the text parameter on base, keeping any other parameters. An
// empty base yields a bare query string ("?t=...").
func URL(base, text string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set(Param, Encode(strings.TrimSpace(text)))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromQuery extracts and decodes the text parameter from a full link, a
// query string with or without its leading '?', or a bare encoded value.
func FromQuery(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	var query string
	switch {
	case strings.Contains(raw, "?"):
		query = raw[strings.IndexByte(raw, '?')+1:]
	case strings.HasPrefix(raw, Param+"=") || strings.Contains(raw, "&"+Param+"="):
		query = raw
	default:
		return Decode(raw)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return "", false
	}
	encoded := values.Get(Param)
	if encoded == "" {
		return "", false
	}
	return Decode(encoded)
}
