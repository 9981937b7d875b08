package download

import (
	"net/url"
	"strings"
	"unicode"
)

const fallbackName = "invalid_url.bin"
const defaultExtension = ".bin"

// DeriveFilename synthesizes a safe file name from a URL. It is total:
// any input, including unparsable ones, yields a usable non-empty name.
func DeriveFilename(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fallbackName
	}
	path := parsed.EscapedPath()
	if path == "" || path == "/" {
		return hostName(parsed)
	}
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return addDefaultExtension(cleanFilename(segments[i]))
		}
	}
	return hostName(parsed)
}

// cleanFilename percent-decodes a path segment and replaces control
// characters and the characters / \ : * with underscores.
func cleanFilename(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '/' || r == '\\' || r == ':' || r == '*' {
			return '_'
		}
		return r
	}, decoded)
}

func hostName(parsed *url.URL) string {
	host := parsed.Hostname()
	if host == "" {
		host = "unknown"
	}
	return host + defaultExtension
}

func addDefaultExtension(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + defaultExtension
}
