package models

import "testing"

func TestContentMixPercentages(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int
		want   map[string]int
	}{
		{
			name: "total of one hundred is exact",
			counts: map[string]int{
				ContentTypeSalesTip:        40,
				ContentTypeAINews:          25,
				ContentTypeHotTake:         20,
				ContentTypeProductShowcase: 15,
			},
			want: map[string]int{
				ContentTypeSalesTip:        40,
				ContentTypeAINews:          25,
				ContentTypeHotTake:         20,
				ContentTypeProductShowcase: 15,
			},
		},
		{
			name:   "rounds to nearest percent",
			counts: map[string]int{ContentTypeSalesTip: 30, ContentTypeAINews: 10},
			want:   map[string]int{ContentTypeSalesTip: 75, ContentTypeAINews: 25},
		},
		{
			name:   "thirds round individually",
			counts: map[string]int{ContentTypeSalesTip: 1, ContentTypeAINews: 1, ContentTypeHotTake: 1},
			want:   map[string]int{ContentTypeSalesTip: 33, ContentTypeAINews: 33, ContentTypeHotTake: 33},
		},
		{
			name:   "zero total yields zero percentages",
			counts: map[string]int{ContentTypeSalesTip: 0, ContentTypeAINews: 0},
			want:   map[string]int{ContentTypeSalesTip: 0, ContentTypeAINews: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ContentMixPercentages(tc.counts)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d entries, got %d", len(tc.want), len(got))
			}
			for ct, want := range tc.want {
				if got[ct] != want {
					t.Errorf("%s: expected %d%%, got %d%%", ct, want, got[ct])
				}
			}
		})
	}
}
