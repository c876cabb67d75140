// Package schema defines the copy-bundle document produced by generation and
// the pure validation contract every surfaced document must pass.
package schema

// Tone values accepted in input_echo.tone.
const (
	ToneFriendly = "friendly"
	ToneNeutral  = "neutral"
	ToneFormal   = "formal"
	ToneBold     = "bold"
)

// Tones lists the accepted tone values in display order.
var Tones = []string{ToneFriendly, ToneNeutral, ToneFormal, ToneBold}

// Question priorities.
const (
	PriorityP0 = "P0"
	PriorityP1 = "P1"
	PriorityP2 = "P2"
)

// Priorities lists the accepted question priorities.
var Priorities = []string{PriorityP0, PriorityP1, PriorityP2}

// Risk flag types. The model must use exactly these; anything else is a
// schema violation.
const (
	RiskForbiddenClaims     = "forbidden_claims"
	RiskComplianceSensitive = "compliance_sensitive"
	RiskVagueOffer          = "vague_offer"
	RiskMissingProof        = "missing_proof"
	RiskFormatOverflow      = "format_overflow"
)

// RiskTypes lists the accepted risk flag types.
var RiskTypes = []string{
	RiskForbiddenClaims,
	RiskComplianceSensitive,
	RiskVagueOffer,
	RiskMissingProof,
	RiskFormatOverflow,
}

// Bounds on variants_per_segment.
const (
	MinVariantsPerSegment = 1
	MaxVariantsPerSegment = 3
)

// CharCount holds recomputed headline/body lengths in runes. Counts are
// normalized during validation so downstream export/UI always gets trusted
// values.
type CharCount struct {
	Headline int `json:"headline"`
	Body     int `json:"body"`
}

// RiskFlag marks a compliance or quality concern on one variant.
type RiskFlag struct {
	Type       string `json:"type"`
	Note       string `json:"note"`
	SuggestFix string `json:"suggest_fix"`
}

// CopyVariant is one generated ad-copy record for a (segment, format) pair.
type CopyVariant struct {
	Headline  string     `json:"headline"`
	Body      string     `json:"body"`
	CTA       string     `json:"cta"`
	Rationale string     `json:"rationale"`
	CharCount CharCount  `json:"char_count"`
	RiskFlags []RiskFlag `json:"risk_flags"`
}

// SegmentCopy groups the variants generated for one audience segment.
type SegmentCopy struct {
	SegmentID       string        `json:"segment_id"`
	SegmentName     string        `json:"segment_name"`
	CoreInsight     string        `json:"core_insight"`
	Trigger         string        `json:"trigger"`
	Angle           string        `json:"angle"`
	Copies          []CopyVariant `json:"copies"`
	DifferencesNote string        `json:"differences_note"`
}

// QuestionItem is a clarifying question the model wants answered.
type QuestionItem struct {
	Q        string `json:"q"`
	Why      string `json:"why"`
	Priority string `json:"priority"`
}

// GlobalRisk is a bundle-level risk with its mitigation.
type GlobalRisk struct {
	Risk       string `json:"risk"`
	Impact     string `json:"impact"`
	Mitigation string `json:"mitigation"`
}

// ExportHints tells the reader how to use the bundle.
type ExportHints struct {
	HowToUse          []string `json:"how_to_use"`
	ABTestSuggestions []string `json:"ab_test_suggestions"`
}

// ExecSummary is the two-audience executive summary.
type ExecSummary struct {
	ForMarketer       string `json:"for_marketer"`
	ForNonTechManager string `json:"for_non_tech_manager"`
}

// InputEcho echoes the generation request back inside the document so the
// bundle is self-describing.
type InputEcho struct {
	BaseText           string   `json:"base_text"`
	Tone               string   `json:"tone"`
	FormatID           string   `json:"format_id"`
	VariantsPerSegment int      `json:"variants_per_segment"`
	Constraints        []string `json:"constraints"`
	Assumptions        []string `json:"assumptions"`
}

// CopyBundle is the full structured generation result. Immutable once
// validated; nothing partially valid is ever surfaced or exported.
type CopyBundle struct {
	Version     string         `json:"version"`
	InputEcho   InputEcho      `json:"input_echo"`
	Questions   []QuestionItem `json:"questions"`
	Segments    []SegmentCopy  `json:"segments"`
	GlobalRisks []GlobalRisk   `json:"global_risks"`
	ExportHints ExportHints    `json:"export_hints"`
	ExecSummary ExecSummary    `json:"exec_summary"`
}

// VariantCount returns the total number of copy variants across segments.
func (b *CopyBundle) VariantCount() int {
	n := 0
	for _, s := range b.Segments {
		n += len(s.Copies)
	}
	return n
}
