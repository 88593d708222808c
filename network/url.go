package network

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ResolveURL resolves a reference URL against a base URL. Absolute, data:
// and fragment-only references are handled without touching the base path.
func ResolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	if IsDataURL(ref) {
		return ref, nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if strings.HasPrefix(ref, "#") {
		baseURL.Fragment = ref[1:]
		return baseURL.String(), nil
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference URL: %w", err)
	}
	if refURL.IsAbs() {
		return refURL.String(), nil
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// IsAbsoluteURL returns true if the URL is absolute (has a scheme).
func IsAbsoluteURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return u.IsAbs()
}

// IsDataURL returns true if the URL is a data URL.
func IsDataURL(urlStr string) bool {
	return len(urlStr) >= 5 && strings.EqualFold(urlStr[:5], "data:")
}

// DataURL represents a parsed data URL.
type DataURL struct {
	MediaType string
	Charset   string
	Base64    bool
	Data      []byte
}

// ParseDataURL parses data:[<mediatype>][;charset=...][;base64],<data>.
func ParseDataURL(urlStr string) (*DataURL, error) {
	if !IsDataURL(urlStr) {
		return nil, errors.New("not a data URL")
	}

	metadata, data, ok := strings.Cut(urlStr[5:], ",")
	if !ok {
		return nil, errors.New("invalid data URL: missing comma")
	}

	result := &DataURL{
		MediaType: "text/plain",
		Charset:   "US-ASCII",
	}
	for i, part := range strings.Split(metadata, ";") {
		part = strings.TrimSpace(part)
		switch {
		case strings.EqualFold(part, "base64"):
			result.Base64 = true
		case len(part) > 8 && strings.EqualFold(part[:8], "charset="):
			result.Charset = part[8:]
		case i == 0 && part != "" && !strings.Contains(part, "="):
			result.MediaType = strings.ToLower(part)
		}
	}

	if result.Base64 {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 data: %w", err)
		}
		result.Data = decoded
		return result, nil
	}
	decoded, err := url.PathUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("failed to URL-decode data: %w", err)
	}
	result.Data = []byte(decoded)
	return result, nil
}

// ExtractPath returns the path component of a URL.
func ExtractPath(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Path
}

// ExtractExtension returns the lowercased file extension of a URL path,
// without the dot.
func ExtractExtension(urlStr string) string {
	p := ExtractPath(urlStr)
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}

// GuessContentType guesses the content type from a URL's extension.
func GuessContentType(urlStr string) string {
	switch ExtractExtension(urlStr) {
	case "html", "htm":
		return "text/html"
	case "xhtml":
		return "application/xhtml+xml"
	case "svg":
		return "image/svg+xml"
	case "css":
		return "text/css"
	case "js", "mjs":
		return "text/javascript"
	case "woff":
		return "font/woff"
	case "woff2":
		return "font/woff2"
	case "ttf":
		return "font/ttf"
	case "otf":
		return "font/otf"
	default:
		return "application/octet-stream"
	}
}
