package validation

import (
	"strings"
	"testing"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name string
		slug string
		want bool
	}{
		{"valid alphanumeric", "guide123", true},
		{"valid with hyphen", "how-to-mod", true},
		{"valid with underscore", "my_mod", true},
		{"empty string", "", false},
		{"too long", strings.Repeat("a", MaxSlugLength+1), false},
		{"contains space", "my mod", false},
		{"contains slash", "my/mod", false},
		{"path traversal attempt", "../etc/passwd", false},
		{"url encoded", "my%20mod", false},
		{"unicode", "日本語", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateSlug(tt.slug); got != tt.want {
				t.Errorf("ValidateSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"simple", "alice", true},
		{"with dot", "alice.b", true},
		{"empty", "", false},
		{"with space", "alice b", false},
		{"too long", strings.Repeat("a", MaxUsernameLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateUsername(tt.username); got != tt.want {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, got, tt.want)
			}
		})
	}
}

func TestValidateCommentBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		valid   bool
		wantMsg string
	}{
		{"normal", "Great mod!", true, ""},
		{"empty", "", false, "Comment cannot be empty"},
		{"whitespace only", "   \n\t", false, "Comment cannot be empty"},
		{"at limit", strings.Repeat("ж", MaxCommentLength), true, ""},
		{"too long", strings.Repeat("a", MaxCommentLength+1), false, "Comment is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateCommentBody(tt.body)
			if valid != tt.valid || msg != tt.wantMsg {
				t.Errorf("ValidateCommentBody() = %v, %q; want %v, %q", valid, msg, tt.valid, tt.wantMsg)
			}
		})
	}
}

func TestValidateReviewNote(t *testing.T) {
	if ok, _ := ValidateReviewNote(""); !ok {
		t.Error("empty review note should be valid")
	}
	if ok, _ := ValidateReviewNote(strings.Repeat("n", MaxReviewNoteLength+1)); ok {
		t.Error("oversized review note should be invalid")
	}
}

func TestValidateUploadName(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		valid bool
	}{
		{"archive", "pack-v1.2.zip", true},
		{"empty", "", false},
		{"dot", ".", false},
		{"dotdot", "..", false},
		{"slash", "a/b.zip", false},
		{"backslash", `a\b.zip`, false},
		{"too long", strings.Repeat("a", MaxUploadNameLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if valid, msg := ValidateUploadName(tt.file); valid != tt.valid {
				t.Errorf("ValidateUploadName(%q) = %v (%s), want %v", tt.file, valid, msg, tt.valid)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://example.com", true, ""},
		{"valid http", "http://example.com", true, ""},
		{"valid with path", "https://example.com/files/pack.zip", true, ""},
		{"valid with port", "https://example.com:8080", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"data scheme", "data:text/html,<script>alert(1)</script>", false, "URL must use http:// or https:// scheme"},
		{"file scheme", "file:///etc/passwd", false, "URL must use http:// or https:// scheme"},
		{"no scheme", "example.com", false, "URL must use http:// or https:// scheme"},
		{"uppercase scheme", "HTTPS://example.com", true, ""},
		{"scheme only", "https://", false, "URL must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}
