package promptbuild

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segcraft/internal/catalog"
	"segcraft/internal/schema"
)

func sampleInput() Input {
	return Input{
		BaseText: "Melatonin gummies for gentle sleep. 30 pcs, berry flavor.",
		Context:  "Online store, delivery across Russia",
		Segments: []catalog.Segment{
			{
				SegmentID: "busy_pros",
				Name:      "Busy professionals",
				Who:       "working adults with long hours",
				Pains:     []string{"no time", "late nights"},
				Triggers:  []string{"speed", "simplicity"},
				Taboos:    []string{"medical claims"},
				ToneHint:  "direct",
				CTAStyle:  "short",
			},
		},
		Format: catalog.Format{
			FormatID:       "yadirect_text",
			Name:           "Yandex Direct",
			Limits:         schema.FormatLimits{HeadlineMax: 56, BodyMax: 81},
			OutputTemplate: "Headline up to 56 chars, body up to 81 chars.",
			Notes:          "strict platform limits",
		},
		Constraints:        []string{"No medical promises"},
		Tone:               schema.ToneNeutral,
		Language:           "ru",
		VariantsPerSegment: 2,
		Variability:        "medium",
	}
}

func TestBuildMissingInput(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *Input)
		wantField string
	}{
		{"empty base text", func(in *Input) { in.BaseText = "  \n " }, "base_text"},
		{"no segments", func(in *Input) { in.Segments = nil }, "segments"},
		{"no format", func(in *Input) { in.Format = catalog.Format{} }, "format_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			tt.mutate(&in)

			_, err := Build(in)
			require.Error(t, err)

			var missing *MissingInputError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.wantField, missing.Field)
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	first, err := Build(sampleInput())
	require.NoError(t, err)
	second, err := Build(sampleInput())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("prompt differs between identical builds (-first +second):\n%s", diff)
	}
}

func TestBuildSectionOrder(t *testing.T) {
	prompt, err := Build(sampleInput())
	require.NoError(t, err)

	sections := []string{
		"[ROLE]",
		"[BASE_TEXT]",
		"[CONTEXT]",
		"[LANGUAGE]",
		"[TONE]",
		"[SEGMENTS_SELECTED]",
		"[FORMAT]",
		"[CONSTRAINTS]",
		"[VARIANTS_PER_SEGMENT]",
		"[VARIABILITY_LEVEL]",
		"[OUTPUT_SCHEMA]",
	}

	last := -1
	for _, section := range sections {
		idx := strings.Index(prompt, section)
		require.GreaterOrEqual(t, idx, 0, "section %s missing from prompt", section)
		assert.Greater(t, idx, last, "section %s out of order", section)
		last = idx
	}
}

func TestBuildContent(t *testing.T) {
	in := sampleInput()
	prompt, err := Build(in)
	require.NoError(t, err)

	assert.Contains(t, prompt, in.BaseText)
	assert.Contains(t, prompt, "Busy professionals (busy_pros)")
	assert.Contains(t, prompt, "headline_max: 56")
	assert.Contains(t, prompt, "body_max: 81")
	assert.Contains(t, prompt, "- No medical promises")
	assert.Contains(t, prompt, "format_overflow")
}

func TestBuildDefaults(t *testing.T) {
	in := sampleInput()
	in.Context = ""
	in.Constraints = nil
	in.Format.Limits = schema.FormatLimits{}

	prompt, err := Build(in)
	require.NoError(t, err)

	assert.Contains(t, prompt, "[CONTEXT]\nNot provided")
	assert.Contains(t, prompt, "[CONSTRAINTS]\n- None")
	assert.Contains(t, prompt, "headline_max: 999")
	assert.Contains(t, prompt, "body_max: 5000")
}
