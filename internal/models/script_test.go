package models

import "testing"

func TestValidateSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []ScriptSegment
		wantErr  bool
	}{
		{
			name: "well formed",
			segments: []ScriptSegment{
				{Type: SegmentTypeHook, Text: "Cold calling is dead.", DurationSeconds: 3},
				{Type: SegmentTypeContent, Text: "Modern buyers do their own research.", DurationSeconds: 20},
				{Type: SegmentTypeCTA, Text: "Try it free.", DurationSeconds: 4},
			},
			wantErr: false,
		},
		{
			name:     "empty list",
			segments: []ScriptSegment{},
			wantErr:  true,
		},
		{
			name: "blank text",
			segments: []ScriptSegment{
				{Type: SegmentTypeHook, Text: "   ", DurationSeconds: 3},
			},
			wantErr: true,
		},
		{
			name: "negative duration",
			segments: []ScriptSegment{
				{Type: SegmentTypeHook, Text: "Hook", DurationSeconds: -1},
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSegments(tc.segments)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateSegments() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestJoinSegments(t *testing.T) {
	segments := []ScriptSegment{
		{Text: "First."},
		{Text: ""},
		{Text: "Second."},
	}
	got := JoinSegments(segments)
	want := "First. Second."
	if got != want {
		t.Errorf("JoinSegments() = %q, want %q", got, want)
	}
}
