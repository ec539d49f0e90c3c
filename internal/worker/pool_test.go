package worker

import (
	"testing"

	"shortform-backend/internal/models"
)

func TestUploadPrivacy(t *testing.T) {
	if got := uploadPrivacy(true); got != models.PrivacyPublic {
		t.Errorf("uploadPrivacy(true) = %q, want %q", got, models.PrivacyPublic)
	}
	if got := uploadPrivacy(false); got != models.PrivacyUnlisted {
		t.Errorf("uploadPrivacy(false) = %q, want %q", got, models.PrivacyUnlisted)
	}
}

func TestPickContentType(t *testing.T) {
	defaultMix := map[string]int{
		models.ContentTypeSalesTip:        40,
		models.ContentTypeAINews:          25,
		models.ContentTypeHotTake:         20,
		models.ContentTypeProductShowcase: 15,
	}

	tests := []struct {
		name   string
		counts map[string]int
		mix    map[string]int
		want   string
	}{
		{
			name:   "emptyCountsPicksLargestShare",
			counts: map[string]int{},
			mix:    defaultMix,
			want:   models.ContentTypeSalesTip,
		},
		{
			name: "picksMostUnderrepresented",
			counts: map[string]int{
				models.ContentTypeSalesTip:        8,
				models.ContentTypeAINews:          5,
				models.ContentTypeHotTake:         4,
				models.ContentTypeProductShowcase: 0,
			},
			mix:  defaultMix,
			want: models.ContentTypeProductShowcase,
		},
		{
			name: "balancedCountsFollowMixOrder",
			counts: map[string]int{
				models.ContentTypeSalesTip:        40,
				models.ContentTypeAINews:          25,
				models.ContentTypeHotTake:         20,
				models.ContentTypeProductShowcase: 15,
			},
			mix:  defaultMix,
			want: models.ContentTypeSalesTip,
		},
		{
			name: "zeroWeightTypeNeverPicked",
			counts: map[string]int{
				models.ContentTypeSalesTip: 100,
			},
			mix: map[string]int{
				models.ContentTypeSalesTip: 100,
				models.ContentTypeAINews:   0,
			},
			want: models.ContentTypeSalesTip,
		},
		{
			name: "singleTypeMix",
			counts: map[string]int{
				models.ContentTypeSalesTip: 3,
				models.ContentTypeHotTake:  1,
			},
			mix:  map[string]int{models.ContentTypeHotTake: 100},
			want: models.ContentTypeHotTake,
		},
		{
			name:   "emptyMixFallsBackToSalesTip",
			counts: map[string]int{},
			mix:    map[string]int{},
			want:   models.ContentTypeSalesTip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PickContentType(tt.counts, tt.mix); got != tt.want {
				t.Errorf("PickContentType() = %q, want %q", got, tt.want)
			}
		})
	}
}
