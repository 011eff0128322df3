package models

import "testing"

func TestModerationRequest_IsActionable(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{StatusPending, true},
		{StatusNeedsRevision, true},
		{StatusApproved, false},
		{StatusRejected, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			r := &ModerationRequest{Status: tt.status}
			if got := r.IsActionable(); got != tt.expected {
				t.Errorf("IsActionable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestModerationRequest_DisplayTitle(t *testing.T) {
	details := EntityDetails{Title: "Guide", Name: "pack.zip", Content: "nice mod"}
	tests := []struct {
		entityType string
		expected   string
	}{
		{EntityArticle, "Guide"},
		{EntityDownloadLink, "pack.zip"},
		{EntityComment, "nice mod"},
		{"UNKNOWN", ""},
	}

	for _, tt := range tests {
		t.Run(tt.entityType, func(t *testing.T) {
			r := &ModerationRequest{EntityType: tt.entityType, EntityDetails: details}
			if got := r.DisplayTitle(); got != tt.expected {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTranslationFile_SearchText(t *testing.T) {
	if got := (TranslationFile{Name: "x"}).SearchText(); got != nil {
		t.Errorf("SearchText() without translator = %v, want nil", got)
	}
	f := TranslationFile{Name: "x", Translator: &Translator{Name: "Mira"}}
	if got := f.SearchText(); len(got) != 1 || got[0] != "Mira" {
		t.Errorf("SearchText() = %v, want [Mira]", got)
	}
}
