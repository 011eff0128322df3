package validation

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

// SlugPattern defines the valid slug format for articles and mods.
var SlugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// UsernamePattern defines the valid community username format.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Length limits
const (
	MaxSlugLength       = 200
	MaxUsernameLength   = 64
	MaxCommentLength    = 5000
	MaxReviewNoteLength = 2000
	MaxUploadNameLength = 255
)

// ValidateSlug checks if an article or mod slug matches the allowed pattern.
func ValidateSlug(slug string) bool {
	if slug == "" || len(slug) > MaxSlugLength {
		return false
	}
	return SlugPattern.MatchString(slug)
}

// ValidateUsername checks if a community username matches the allowed pattern.
func ValidateUsername(username string) bool {
	if username == "" || len(username) > MaxUsernameLength {
		return false
	}
	return UsernamePattern.MatchString(username)
}

// ValidateCommentBody checks a comment body before it is posted.
func ValidateCommentBody(body string) (bool, string) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return false, "Comment cannot be empty"
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return false, "Comment is too long"
	}
	return true, ""
}

// ValidateReviewNote checks an optional reviewer note.
func ValidateReviewNote(note string) (bool, string) {
	if utf8.RuneCountInString(note) > MaxReviewNoteLength {
		return false, "Review note is too long"
	}
	return true, ""
}

// ValidateUploadName checks a file name sent with an upload. Path separators
// and traversal are rejected so the name can be used inside a storage key.
func ValidateUploadName(name string) (bool, string) {
	if name == "" {
		return false, "File name is required"
	}
	if len(name) > MaxUploadNameLength {
		return false, "File name is too long"
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || path.Clean(name) != name {
		return false, "File name must not contain path separators"
	}
	return true, ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Check scheme - only allow http and https
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}
