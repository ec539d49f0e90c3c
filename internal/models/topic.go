package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	ContentTypeSalesTip        = "sales_tip"
	ContentTypeAINews          = "ai_news"
	ContentTypeHotTake         = "hot_take"
	ContentTypeProductShowcase = "product_showcase"
)

// ContentTypes lists every valid content_type, in display order.
var ContentTypes = []string{
	ContentTypeSalesTip,
	ContentTypeAINews,
	ContentTypeHotTake,
	ContentTypeProductShowcase,
}

const (
	TopicStatusPending  = "pending"
	TopicStatusUsed     = "used"
	TopicStatusArchived = "archived"
)

type Topic struct {
	ID                       uuid.UUID `json:"id"`
	ContentType              string    `json:"content_type"`
	Title                    string    `json:"title"`
	Hook                     string    `json:"hook"`
	MainPoints               []string  `json:"main_points"`
	CTA                      string    `json:"cta"`
	Hashtags                 []string  `json:"hashtags"`
	EstimatedDurationSeconds int       `json:"estimated_duration_seconds"`
	Language                 string    `json:"language"`
	Status                   string    `json:"status"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func ValidContentType(ct string) bool {
	for _, t := range ContentTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// CanTransitionTopicStatus reports whether a topic may move from one status
// to another. Topics never return to pending, and archived is terminal.
func CanTransitionTopicStatus(from, to string) bool {
	switch from {
	case TopicStatusPending:
		return to == TopicStatusUsed || to == TopicStatusArchived
	case TopicStatusUsed:
		return to == TopicStatusArchived
	default:
		return false
	}
}

// Validate checks a topic before it is persisted.
func (t *Topic) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("topic title is required")
	}
	if !ValidContentType(t.ContentType) {
		return fmt.Errorf("invalid content_type %q", t.ContentType)
	}
	if t.EstimatedDurationSeconds < 0 {
		return fmt.Errorf("estimated_duration_seconds must not be negative")
	}
	return nil
}
