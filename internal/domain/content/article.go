package content

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/lifeos/backend/internal/domain/shared"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// LocalizedText maps a BCP 47 language tag to text in that language,
// e.g. {"cs": "...", "en": "..."}. Stored as JSONB.
type LocalizedText map[string]string

// Validate checks that every key parses as a language tag
func (l LocalizedText) Validate() error {
	if len(l) == 0 {
		return shared.NewDomainError("INVALID_LOCALE", "At least one translation is required")
	}
	for tag := range l {
		if _, err := language.Parse(tag); err != nil {
			return shared.NewDomainError("INVALID_LOCALE", "Unknown language tag: "+tag)
		}
	}
	return nil
}

// Pick returns the best translation for the requested tag, falling back to
// any available language when no match exists.
func (l LocalizedText) Pick(tag string) string {
	if v, ok := l[tag]; ok {
		return v
	}
	want, err := language.Parse(tag)
	if err == nil {
		base, _ := want.Base()
		for k, v := range l {
			got, err := language.Parse(k)
			if err != nil {
				continue
			}
			if b, _ := got.Base(); b == base {
				return v
			}
		}
	}
	for _, v := range l {
		return v
	}
	return ""
}

// Article is a publishable piece of content with per-language title and body
type Article struct {
	shared.OwnedAggregateRoot
	Slug        string     `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Title       string     `gorm:"type:jsonb;not null" json:"-"`
	Body        string     `gorm:"type:jsonb;not null" json:"-"`
	Tags        string     `gorm:"type:jsonb;default:'[]'" json:"tags"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// TableName returns the table name for GORM
func (Article) TableName() string {
	return "articles"
}

// NewArticle creates an unpublished article
func NewArticle(ownerID uuid.UUID, slug string, title, body LocalizedText) (*Article, error) {
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase words separated by hyphens")
	}
	if err := title.Validate(); err != nil {
		return nil, err
	}
	if err := body.Validate(); err != nil {
		return nil, err
	}
	a := &Article{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Slug:               slug,
		Tags:               "[]",
	}
	a.setTitle(title)
	a.setBody(body)
	return a, nil
}

// TitleText decodes the localized title column
func (a *Article) TitleText() LocalizedText {
	var t LocalizedText
	if err := json.Unmarshal([]byte(a.Title), &t); err != nil {
		return nil
	}
	return t
}

// BodyText decodes the localized body column
func (a *Article) BodyText() LocalizedText {
	var b LocalizedText
	if err := json.Unmarshal([]byte(a.Body), &b); err != nil {
		return nil
	}
	return b
}

// UpdateContent replaces title and body translations
func (a *Article) UpdateContent(title, body LocalizedText) error {
	if err := title.Validate(); err != nil {
		return err
	}
	if err := body.Validate(); err != nil {
		return err
	}
	a.setTitle(title)
	a.setBody(body)
	a.Touch()
	a.IncrementVersion()
	return nil
}

// SetTags replaces the tag list
func (a *Article) SetTags(tags []string) error {
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return shared.NewDomainError("INVALID_TAGS", "Tags cannot be empty")
		}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return shared.NewDomainError("INVALID_TAGS", "Tags must be serializable")
	}
	a.Tags = string(raw)
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Publish makes the article visible on the public endpoint
func (a *Article) Publish(now time.Time) error {
	if a.Published {
		return shared.NewDomainError("INVALID_STATE", "Article is already published")
	}
	a.Published = true
	a.PublishedAt = &now
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Unpublish takes the article off the public endpoint
func (a *Article) Unpublish() error {
	if !a.Published {
		return shared.NewDomainError("INVALID_STATE", "Article is not published")
	}
	a.Published = false
	a.PublishedAt = nil
	a.Touch()
	a.IncrementVersion()
	return nil
}

func (a *Article) setTitle(title LocalizedText) {
	raw, _ := json.Marshal(title)
	a.Title = string(raw)
}

func (a *Article) setBody(body LocalizedText) {
	raw, _ := json.Marshal(body)
	a.Body = string(raw)
}
