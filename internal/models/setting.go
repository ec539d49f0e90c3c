package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Setting struct {
	ID          uuid.UUID       `json:"id"`
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ContentSettings is the typed view over the settings rows. Rows the
// dashboard never wrote fall back to these defaults.
type ContentSettings struct {
	ContentMix      map[string]int `json:"content_mix"`
	PublishHour     int            `json:"publish_hour"`
	DefaultLanguage string         `json:"default_language"`
	AutoPublish     bool           `json:"auto_publish"`
	ShortsPerDay    int            `json:"shorts_per_day"`
}

func DefaultContentSettings() ContentSettings {
	return ContentSettings{
		ContentMix: map[string]int{
			ContentTypeSalesTip:        40,
			ContentTypeAINews:          25,
			ContentTypeHotTake:         20,
			ContentTypeProductShowcase: 15,
		},
		PublishHour:     10,
		DefaultLanguage: "nl",
		AutoPublish:     true,
		ShortsPerDay:    1,
	}
}

// Validate rejects settings rows whose JSON decoded into nonsense.
func (s ContentSettings) Validate() error {
	if s.PublishHour < 0 || s.PublishHour > 23 {
		return fmt.Errorf("publish_hour %d out of range", s.PublishHour)
	}
	if s.ShortsPerDay < 1 {
		return fmt.Errorf("shorts_per_day must be at least 1")
	}
	if s.DefaultLanguage == "" {
		return fmt.Errorf("default_language is empty")
	}
	if len(s.ContentMix) == 0 {
		return fmt.Errorf("content_mix is empty")
	}
	sum := 0
	for ct, pct := range s.ContentMix {
		if !ValidContentType(ct) {
			return fmt.Errorf("content_mix has unknown content type %q", ct)
		}
		if pct < 0 {
			return fmt.Errorf("content_mix weight for %q is negative", ct)
		}
		sum += pct
	}
	if sum == 0 {
		return fmt.Errorf("content_mix weights sum to zero")
	}
	return nil
}
