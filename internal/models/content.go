package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteState is the favorite flag and counter shown for an article.
type FavoriteState struct {
	Favorited      bool `json:"favorited"`
	FavoritesCount int  `json:"favoritesCount"`
}

// FollowState is the follow flag shown for an author.
type FollowState struct {
	Following bool `json:"following"`
}

// Profile is the remote API's representation of an author.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// Comment is a comment on an article.
type Comment struct {
	ID        int       `json:"id"`
	Body      string    `json:"body"`
	Author    Profile   `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Translator identifies who produced a translation file.
type Translator struct {
	Name string `json:"name"`
}

// DownloadFile is a downloadable file attached to a mod.
type DownloadFile struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	CreatedAt   string `json:"createdAt,omitempty"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// EntryName, EntryCreatedAt and SearchText let download files be listed.
func (f DownloadFile) EntryName() string { return f.Name }
func (f DownloadFile) EntryCreatedAt() string { return f.CreatedAt }
func (f DownloadFile) SearchText() []string {
	if f.Description == "" {
		return nil
	}
	return []string{f.Description}
}

// TranslationFile is a translated variant of a mod's files.
type TranslationFile struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	CreatedAt  string      `json:"createdAt,omitempty"`
	FileURL    string      `json:"fileUrl"`
	Translator *Translator `json:"translator,omitempty"`
	Language   string      `json:"language"`
}

func (f TranslationFile) EntryName() string { return f.Name }
func (f TranslationFile) EntryCreatedAt() string { return f.CreatedAt }
func (f TranslationFile) SearchText() []string {
	if f.Translator == nil || f.Translator.Name == "" {
		return nil
	}
	return []string{f.Translator.Name}
}

// Upload records a file pushed through the gateway.
type Upload struct {
	ID         uuid.UUID `json:"id"`
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Backend    string    `json:"backend"` // remote, s3
	UploadedBy uuid.UUID `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
