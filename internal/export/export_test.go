package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segcraft/internal/schema"
)

func exportBundle() *schema.CopyBundle {
	return &schema.CopyBundle{
		Version: "1.0",
		InputEcho: schema.InputEcho{
			BaseText:           "Melatonin gummies",
			Tone:               schema.ToneNeutral,
			FormatID:           "yadirect_text",
			VariantsPerSegment: 2,
		},
		Segments: []schema.SegmentCopy{
			{
				SegmentID:   "busy_pros",
				SegmentName: "Busy professionals",
				CoreInsight: "They want results without rituals",
				Copies: []schema.CopyVariant{
					{
						Headline:  "Sleep on schedule",
						Body:      "One gummy after dinner.",
						CTA:       "Try it",
						Rationale: "Direct time promise",
						CharCount: schema.CharCount{Headline: 17, Body: 23},
						RiskFlags: []schema.RiskFlag{},
					},
					{
						Headline:  "Deadlines, then sleep",
						Body:      "A berry gummy, zero sugar.",
						CTA:       "Order",
						Rationale: "Acknowledges the lifestyle",
						CharCount: schema.CharCount{Headline: 21, Body: 26},
						RiskFlags: []schema.RiskFlag{
							{Type: schema.RiskVagueOffer, Note: "sounds like a guarantee"},
							{Type: schema.RiskFormatOverflow, Note: "was truncated"},
						},
					},
				},
			},
			{
				SegmentID:   "students",
				SegmentName: "Students",
				Copies: []schema.CopyVariant{
					{
						Headline:  "Fix your schedule",
						Body:      "After exams, sleep comes back.",
						CTA:       "Check it out",
						CharCount: schema.CharCount{Headline: 17, Body: 30},
						RiskFlags: []schema.RiskFlag{},
					},
				},
			},
		},
		ExecSummary: schema.ExecSummary{
			ForMarketer:       "Ready.",
			ForNonTechManager: "Ready.",
		},
	}
}

func TestCSVShape(t *testing.T) {
	b := exportBundle()
	data, err := CSV(b)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	// Header plus one row per variant.
	require.Len(t, records, 1+b.VariantCount())

	wantHeader := []string{
		"segment_id", "segment_name", "variant", "headline", "body",
		"cta", "rationale", "headline_chars", "body_chars", "risk_flags",
	}
	assert.Equal(t, wantHeader, records[0])

	first := records[1]
	assert.Equal(t, "busy_pros", first[0])
	assert.Equal(t, "Busy professionals", first[1])
	assert.Equal(t, "1", first[2])
	assert.Equal(t, "Sleep on schedule", first[3])
	assert.Equal(t, "17", first[7])
	assert.Equal(t, "23", first[8])
	assert.Equal(t, "", first[9])

	second := records[2]
	assert.Equal(t, "2", second[2])
	assert.Equal(t, "vague_offer;format_overflow", second[9])

	// Variant numbering restarts per segment.
	assert.Equal(t, "students", records[3][0])
	assert.Equal(t, "1", records[3][2])
}

func TestJSONRoundTrip(t *testing.T) {
	b := exportBundle()
	data, err := JSON(b)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("\n")))

	decoded, err := schema.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, b.Version, decoded.Version)
	assert.Equal(t, b.VariantCount(), decoded.VariantCount())

	// Identical input gives identical bytes.
	again, err := JSON(b)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestMarkdownMatrix(t *testing.T) {
	b := exportBundle()
	md := string(MarkdownMatrix(b, false))

	assert.Contains(t, md, "## Busy professionals (busy_pros)")
	assert.Contains(t, md, "## Students (students)")
	assert.Contains(t, md, "Insight: They want results without rituals")
	assert.Contains(t, md, "vague_offer, format_overflow")
	assert.Contains(t, md, "17/23")
}

func TestMarkdownMatrixP0Only(t *testing.T) {
	b := exportBundle()
	md := string(MarkdownMatrix(b, true))

	// vague_offer is not a serious risk type and is filtered out.
	assert.NotContains(t, md, "vague_offer")
	assert.Contains(t, md, "format_overflow")
}

func TestMarkdownMatrixEscapesCells(t *testing.T) {
	b := exportBundle()
	b.Segments[0].Copies[0].Headline = "Pipes | and\nnewlines"

	md := string(MarkdownMatrix(b, false))
	assert.Contains(t, md, `Pipes \| and newlines`)
}

func TestCSVPreservesMultilineBody(t *testing.T) {
	b := exportBundle()
	b.Segments[0].Copies[0].Body = "line one\nline two"

	data, err := CSV(b)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.True(t, strings.Contains(records[1][4], "\n"))
}
