package model

import (
	"time"

	"github.com/google/uuid"
)

// ContentType selects which generation endpoint a request is routed to.
type ContentType string

const (
	ContentTypeSermon     ContentType = "sermon"
	ContentTypeDevotional ContentType = "devotional"
)

func (ct ContentType) Valid() bool {
	return ct == ContentTypeSermon || ct == ContentTypeDevotional
}

// Theme, Occasion and Tone are the classifier vocabularies accepted by the
// generation service. Tone is only meaningful for sermons.
type (
	Theme    string
	Occasion string
	Tone     string
)

var validThemes = map[Theme]bool{
	"fe": true, "amor": true, "esperanca": true, "perdao": true,
	"gratidao": true, "familia": true, "ansiedade": true, "cura": true,
	"proposito": true, "paz": true,
}

var validOccasions = map[Occasion]bool{
	"culto": true, "celula": true, "casamento": true, "funeral": true,
	"jovens": true, "evangelismo": true, "manha": true, "noite": true,
}

var validTones = map[Tone]bool{
	"motivacional": true, "confrontador": true, "amoroso": true,
	"reflexivo": true, "evangelistico": true,
}

func (t Theme) Valid() bool    { return validThemes[t] }
func (o Occasion) Valid() bool { return validOccasions[o] }
func (t Tone) Valid() bool     { return validTones[t] }

// Generation is one persisted sermon or devotional.
//
// Content and Output always carry the same value when present; Output exists
// for readers that still expect the old column name. The pairing is enforced
// at write time, not by the store.
type Generation struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Owner       string      `gorm:"column:user_id;not null;index" json:"user_id"`
	Title       string      `gorm:"not null" json:"title"`
	ContentType ContentType `gorm:"column:content_type;not null" json:"content_type"`
	Theme       *Theme      `json:"theme"`
	Occasion    *Occasion   `json:"occasion"`
	Tone        *Tone       `json:"tone"`
	BibleVerse  *string     `gorm:"column:bible_verse" json:"bible_verse"`
	Content     *string     `json:"content"`
	Output      *string     `json:"output"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

func (Generation) TableName() string {
	return "generations"
}

// RawContent returns the canonical text body, falling back to Output when
// Content is absent.
func (g *Generation) RawContent() string {
	if g.Content != nil && *g.Content != "" {
		return *g.Content
	}
	if g.Output != nil {
		return *g.Output
	}
	return ""
}

// SetContent writes Content and Output together so the two never diverge.
func (g *Generation) SetContent(text string) {
	g.Content = &text
	output := text
	g.Output = &output
}

// GenerationRequest is the user-supplied payload for a generate call.
type GenerationRequest struct {
	Title       string      `json:"title" binding:"required"`
	ContentType ContentType `json:"content_type" binding:"required"`
	Theme       *Theme      `json:"theme,omitempty"`
	Occasion    *Occasion   `json:"occasion,omitempty"`
	Tone        *Tone       `json:"tone,omitempty"`
	BibleVerse  *string     `json:"bible_verse,omitempty"`
	// Content is forwarded to the devotional endpoint only.
	Content *string `json:"content,omitempty"`
}

// Validate checks the enum fields against their vocabularies.
func (r *GenerationRequest) Validate() string {
	if !r.ContentType.Valid() {
		return "content_type must be 'sermon' or 'devotional'"
	}
	if r.Theme != nil && !r.Theme.Valid() {
		return "unknown theme"
	}
	if r.Occasion != nil && !r.Occasion.Valid() {
		return "unknown occasion"
	}
	if r.Tone != nil {
		if r.ContentType != ContentTypeSermon {
			return "tone is only accepted for sermons"
		}
		if !r.Tone.Valid() {
			return "unknown tone"
		}
	}
	return ""
}

// GenerationUpdate is the partial set of editable fields for an update call.
// Nil means "leave unchanged".
type GenerationUpdate struct {
	Title      *string   `json:"title,omitempty"`
	Theme      *Theme    `json:"theme,omitempty"`
	Occasion   *Occasion `json:"occasion,omitempty"`
	Tone       *Tone     `json:"tone,omitempty"`
	BibleVerse *string   `json:"bible_verse,omitempty"`
	Content    *string   `json:"content,omitempty"`
}

func (u *GenerationUpdate) Validate() string {
	if u.Theme != nil && !u.Theme.Valid() {
		return "unknown theme"
	}
	if u.Occasion != nil && !u.Occasion.Valid() {
		return "unknown occasion"
	}
	if u.Tone != nil && !u.Tone.Valid() {
		return "unknown tone"
	}
	if u.Title != nil && *u.Title == "" {
		return "title must not be empty"
	}
	return ""
}

// Empty reports whether the update carries no changes at all.
func (u *GenerationUpdate) Empty() bool {
	return u.Title == nil && u.Theme == nil && u.Occasion == nil &&
		u.Tone == nil && u.BibleVerse == nil && u.Content == nil
}
