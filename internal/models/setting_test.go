package models

import "testing"

func TestContentSettingsValidate(t *testing.T) {
	base := DefaultContentSettings()
	if err := base.Validate(); err != nil {
		t.Fatalf("default settings should be valid, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ContentSettings)
	}{
		{"publish hour too large", func(s *ContentSettings) { s.PublishHour = 24 }},
		{"publish hour negative", func(s *ContentSettings) { s.PublishHour = -1 }},
		{"zero shorts per day", func(s *ContentSettings) { s.ShortsPerDay = 0 }},
		{"empty language", func(s *ContentSettings) { s.DefaultLanguage = "" }},
		{"empty mix", func(s *ContentSettings) { s.ContentMix = map[string]int{} }},
		{"unknown mix key", func(s *ContentSettings) { s.ContentMix = map[string]int{"memes": 100} }},
		{"negative weight", func(s *ContentSettings) { s.ContentMix = map[string]int{ContentTypeSalesTip: -5} }},
		{"all weights zero", func(s *ContentSettings) { s.ContentMix = map[string]int{ContentTypeSalesTip: 0} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultContentSettings()
			tc.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestCanTransitionVideoStatus(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{VideoStatusPending, VideoStatusProcessing, true},
		{VideoStatusPending, VideoStatusFailed, true},
		{VideoStatusProcessing, VideoStatusReady, true},
		{VideoStatusProcessing, VideoStatusFailed, true},
		{VideoStatusPending, VideoStatusReady, false},
		{VideoStatusReady, VideoStatusProcessing, false},
		{VideoStatusFailed, VideoStatusProcessing, false},
		{VideoStatusReady, VideoStatusFailed, false},
	}

	for _, tc := range tests {
		if got := CanTransitionVideoStatus(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionVideoStatus(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
