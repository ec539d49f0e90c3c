package models

import "testing"

func TestCanTransitionTopicStatus(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to used", TopicStatusPending, TopicStatusUsed, true},
		{"pending to archived", TopicStatusPending, TopicStatusArchived, true},
		{"used to archived", TopicStatusUsed, TopicStatusArchived, true},
		{"used back to pending", TopicStatusUsed, TopicStatusPending, false},
		{"archived to used", TopicStatusArchived, TopicStatusUsed, false},
		{"archived to pending", TopicStatusArchived, TopicStatusPending, false},
		{"pending to pending", TopicStatusPending, TopicStatusPending, false},
		{"unknown status", "draft", TopicStatusUsed, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransitionTopicStatus(tc.from, tc.to); got != tc.want {
				t.Errorf("CanTransitionTopicStatus(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestTopicValidate(t *testing.T) {
	valid := Topic{
		ContentType:              ContentTypeSalesTip,
		Title:                    "Cold calling is dead",
		EstimatedDurationSeconds: 45,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid topic, got %v", err)
	}

	noTitle := valid
	noTitle.Title = ""
	if err := noTitle.Validate(); err == nil {
		t.Error("expected error for missing title")
	}

	badType := valid
	badType.ContentType = "meme"
	if err := badType.Validate(); err == nil {
		t.Error("expected error for unknown content type")
	}

	negDuration := valid
	negDuration.EstimatedDurationSeconds = -1
	if err := negDuration.Validate(); err == nil {
		t.Error("expected error for negative duration")
	}
}
