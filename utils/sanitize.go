package utils

import (
	"regexp"
	"strings"
)

// SanitizeInput removes any potentially harmful characters from the input string
func SanitizeInput(input string) string {
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_.,!?()[\]{}'":;/]`)
	sanitized := reg.ReplaceAllString(input, "")

	return strings.TrimSpace(sanitized)
}

// TruncateString truncates a string to the specified length, adding an ellipsis if truncated
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
