package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBundle() *CopyBundle {
	return &CopyBundle{
		Version: "1.0",
		InputEcho: InputEcho{
			BaseText:           "Melatonin gummies, 30 pcs",
			Tone:               ToneNeutral,
			FormatID:           "yadirect_text",
			VariantsPerSegment: 2,
		},
		Questions: []QuestionItem{
			{Q: "Is the product certified?", Why: "affects allowed claims", Priority: PriorityP0},
		},
		Segments: []SegmentCopy{
			{
				SegmentID:   "time_poor_pro",
				SegmentName: "Busy professionals",
				Copies: []CopyVariant{
					{Headline: "Fall asleep faster", Body: "One gummy after dinner.", CTA: "Try it", RiskFlags: []RiskFlag{}},
					{Headline: "Sleep despite deadlines", Body: "Simple evening habit.", CTA: "Order", RiskFlags: []RiskFlag{}},
				},
			},
		},
		ExecSummary: ExecSummary{
			ForMarketer:       "Two variants ready for launch.",
			ForNonTechManager: "Ad texts are ready for review.",
		},
	}
}

func TestValidateAcceptsValidBundle(t *testing.T) {
	b := validBundle()
	NormalizeCharCounts(b)
	assert.Empty(t, Validate(b))
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(b *CopyBundle)
		wantField string
		wantRule  string
	}{
		{
			name:      "bad version",
			mutate:    func(b *CopyBundle) { b.Version = "one" },
			wantField: "version",
			wantRule:  RulePattern,
		},
		{
			name:      "missing base text",
			mutate:    func(b *CopyBundle) { b.InputEcho.BaseText = "" },
			wantField: "input_echo.base_text",
			wantRule:  RuleRequired,
		},
		{
			name:      "unknown tone",
			mutate:    func(b *CopyBundle) { b.InputEcho.Tone = "sarcastic" },
			wantField: "input_echo.tone",
			wantRule:  RuleEnum,
		},
		{
			name:      "variants out of range",
			mutate:    func(b *CopyBundle) { b.InputEcho.VariantsPerSegment = 5 },
			wantField: "input_echo.variants_per_segment",
			wantRule:  RuleRange,
		},
		{
			name:      "bad question priority",
			mutate:    func(b *CopyBundle) { b.Questions[0].Priority = "P9" },
			wantField: "questions[0].priority",
			wantRule:  RuleEnum,
		},
		{
			name:      "no segments",
			mutate:    func(b *CopyBundle) { b.Segments = nil },
			wantField: "segments",
			wantRule:  RuleRequired,
		},
		{
			name: "copies count mismatch",
			mutate: func(b *CopyBundle) {
				b.Segments[0].Copies = b.Segments[0].Copies[:1]
			},
			wantField: "segments[0].copies",
			wantRule:  RuleLength,
		},
		{
			name: "empty headline",
			mutate: func(b *CopyBundle) {
				b.Segments[0].Copies[0].Headline = ""
			},
			wantField: "segments[0].copies[0].headline",
			wantRule:  RuleRequired,
		},
		{
			name: "unknown risk type",
			mutate: func(b *CopyBundle) {
				b.Segments[0].Copies[1].RiskFlags = []RiskFlag{{Type: "too_spicy"}}
			},
			wantField: "segments[0].copies[1].risk_flags[0].type",
			wantRule:  RuleEnum,
		},
		{
			name:      "missing exec summary",
			mutate:    func(b *CopyBundle) { b.ExecSummary.ForMarketer = "" },
			wantField: "exec_summary.for_marketer",
			wantRule:  RuleRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBundle()
			tt.mutate(b)
			vs := Validate(b)
			require.NotEmpty(t, vs)

			found := false
			for _, v := range vs {
				if v.Field == tt.wantField && v.Rule == tt.wantRule {
					found = true
				}
			}
			assert.True(t, found, "expected violation on %s (%s), got %v", tt.wantField, tt.wantRule, vs)
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	b := validBundle()
	NormalizeCharCounts(b)
	first := Validate(b)
	second := Validate(b)
	assert.Equal(t, first, second)
	assert.Empty(t, first)
}

func TestNormalizeCharCountsCountsRunes(t *testing.T) {
	b := validBundle()
	b.Segments[0].Copies[0].Headline = "Привет" // 6 runes, 12 bytes
	b.Segments[0].Copies[0].Body = "Сон"
	b.Segments[0].Copies[0].CharCount = CharCount{Headline: 999, Body: 999}
	b.Segments[0].Copies[1].RiskFlags = nil

	NormalizeCharCounts(b)

	assert.Equal(t, 6, b.Segments[0].Copies[0].CharCount.Headline)
	assert.Equal(t, 3, b.Segments[0].Copies[0].CharCount.Body)
	assert.NotNil(t, b.Segments[0].Copies[1].RiskFlags)
}

func TestEnforceFormatLimitsTruncatesAndFlags(t *testing.T) {
	b := validBundle()
	b.Segments[0].Copies[0].Headline = strings.Repeat("a", 70)
	b.Segments[0].Copies[0].Body = "short"

	EnforceFormatLimits(b, FormatLimits{HeadlineMax: 56, BodyMax: 81})

	c := b.Segments[0].Copies[0]
	assert.Equal(t, 56, len([]rune(c.Headline)))
	assert.Equal(t, 56, c.CharCount.Headline)
	require.Len(t, c.RiskFlags, 1)
	assert.Equal(t, RiskFormatOverflow, c.RiskFlags[0].Type)

	// Within-limit variants are untouched.
	assert.Empty(t, b.Segments[0].Copies[1].RiskFlags)
}

func TestEnforceFormatLimitsZeroDisablesBound(t *testing.T) {
	b := validBundle()
	long := strings.Repeat("x", 500)
	b.Segments[0].Copies[0].Body = long

	EnforceFormatLimits(b, FormatLimits{HeadlineMax: 56, BodyMax: 0})

	assert.Equal(t, long, b.Segments[0].Copies[0].Body)
	assert.Empty(t, b.Segments[0].Copies[0].RiskFlags)
}

func TestEnforceFormatLimitsTrimsTrailingSpace(t *testing.T) {
	b := validBundle()
	b.Segments[0].Copies[0].Headline = "Sleep well "

	EnforceFormatLimits(b, FormatLimits{HeadlineMax: 6})

	assert.Equal(t, "Sleep", b.Segments[0].Copies[0].Headline)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestVariantCount(t *testing.T) {
	b := validBundle()
	assert.Equal(t, 2, b.VariantCount())
}
