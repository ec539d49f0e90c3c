package services

import (
	"testing"

	"shortform-backend/internal/models"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `[{"title":"x"}]`, `[{"title":"x"}]`},
		{"fenced", "```\n[1,2]\n```", "[1,2]"},
		{"fenced with json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  \n```json\n[]\n```", "[]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFence(tc.input); got != tc.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseTopics(t *testing.T) {
	raw := "```json\n" + `[
		{"content_type": "hot_take", "title": "Cold calling is dead", "hook": "Stop dialing.",
		 "main_points": ["Buyers research alone", "Timing wins"], "cta": "Try it free",
		 "hashtags": ["sales", "ai"], "estimated_duration_seconds": 40},
		{"content_type": "carrier_pigeon", "title": "Fallback type", "hook": "h",
		 "main_points": ["p"], "cta": "c", "hashtags": []}
	]` + "\n```"

	topics, err := parseTopics(raw, "en")
	if err != nil {
		t.Fatalf("parseTopics failed: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}

	if topics[0].ContentType != models.ContentTypeHotTake {
		t.Errorf("expected hot_take, got %q", topics[0].ContentType)
	}
	if topics[0].Status != models.TopicStatusPending {
		t.Errorf("new topics must be pending, got %q", topics[0].Status)
	}
	if topics[0].Language != "en" {
		t.Errorf("expected language en, got %q", topics[0].Language)
	}

	// Unknown content types fall back to sales_tip rather than failing the batch.
	if topics[1].ContentType != models.ContentTypeSalesTip {
		t.Errorf("expected fallback to sales_tip, got %q", topics[1].ContentType)
	}
	if topics[1].EstimatedDurationSeconds != 45 {
		t.Errorf("expected default duration 45, got %d", topics[1].EstimatedDurationSeconds)
	}
}

func TestParseTopics_InvalidJSON(t *testing.T) {
	if _, err := parseTopics("here are your topics!", "en"); err == nil {
		t.Error("expected error for non-JSON response")
	}
}

func TestParseScript(t *testing.T) {
	raw := `{
		"title": "Stop cold calling",
		"description": "Why modern sales teams moved on. #sales",
		"segments": [
			{"type": "hook", "text": "Cold calling is dead.", "duration_seconds": 3, "visual_cue": "empty desk"},
			{"type": "content", "text": "Buyers do their own research now.", "duration_seconds": 20, "visual_cue": "abstract motion"},
			{"type": "cta", "text": "Try it free.", "duration_seconds": 4, "visual_cue": "logo"}
		]
	}`

	script, err := parseScript(raw)
	if err != nil {
		t.Fatalf("parseScript failed: %v", err)
	}
	if script.Title != "Stop cold calling" {
		t.Errorf("unexpected title %q", script.Title)
	}
	if len(script.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(script.Segments))
	}
	if script.TotalDurationSeconds != 27 {
		t.Errorf("expected total duration 27, got %v", script.TotalDurationSeconds)
	}
	want := "Cold calling is dead. Buyers do their own research now. Try it free."
	if script.FullText != want {
		t.Errorf("unexpected full text %q", script.FullText)
	}
}

func TestParseScript_EmptySegments(t *testing.T) {
	raw := `{"title": "t", "description": "d", "segments": []}`
	if _, err := parseScript(raw); err == nil {
		t.Error("expected error for script without segments")
	}
}
