// Package promptbuild assembles the generation prompt. Building is pure:
// identical inputs always produce byte-identical prompt text, and the only
// failure mode is missing required input, reported before any network call.
package promptbuild

import (
	"fmt"
	"strings"

	"segcraft/internal/catalog"
)

// MissingInputError reports a required input that was absent or empty.
type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Field)
}

// Input carries everything the prompt needs. Segments and Format come from
// the catalog; the rest is user-supplied request data.
type Input struct {
	BaseText           string
	Context            string
	Segments           []catalog.Segment
	Format             catalog.Format
	Constraints        []string
	Tone               string
	Language           string
	VariantsPerSegment int
	Variability        string
}

// Build renders the full generation prompt. It fails fast with a
// MissingInputError when base text, segments, or the format are absent.
func Build(in Input) (string, error) {
	if strings.TrimSpace(in.BaseText) == "" {
		return "", &MissingInputError{Field: "base_text"}
	}
	if len(in.Segments) == 0 {
		return "", &MissingInputError{Field: "segments"}
	}
	if in.Format.FormatID == "" {
		return "", &MissingInputError{Field: "format_id"}
	}

	segmentBlocks := make([]string, 0, len(in.Segments))
	for _, s := range in.Segments {
		segmentBlocks = append(segmentBlocks, segmentBlock(s))
	}

	context := in.Context
	if context == "" {
		context = "Not provided"
	}

	constraints := "- None"
	if len(in.Constraints) > 0 {
		lines := make([]string, 0, len(in.Constraints))
		for _, c := range in.Constraints {
			lines = append(lines, "- "+c)
		}
		constraints = strings.Join(lines, "\n")
	}

	headlineMax := in.Format.Limits.HeadlineMax
	if headlineMax == 0 {
		headlineMax = 999
	}
	bodyMax := in.Format.Limits.BodyMax
	if bodyMax == 0 {
		bodyMax = 5000
	}

	var sb strings.Builder
	sb.WriteString(rolePreamble)
	sb.WriteString("\n\n[BASE_TEXT]\n")
	sb.WriteString(in.BaseText)
	sb.WriteString("\n\n[CONTEXT]\n")
	sb.WriteString(context)
	sb.WriteString("\n\n[LANGUAGE]\n")
	sb.WriteString(in.Language)
	sb.WriteString("\n\n[TONE]\n")
	sb.WriteString(in.Tone)
	sb.WriteString("\n\n[SEGMENTS_SELECTED]\n")
	sb.WriteString(strings.Join(segmentBlocks, "\n"))
	sb.WriteString("\n\n[FORMAT]\n")
	fmt.Fprintf(&sb, "format_id: %s\n", in.Format.FormatID)
	fmt.Fprintf(&sb, "name: %s\n", in.Format.Name)
	fmt.Fprintf(&sb, "headline_max: %d\n", headlineMax)
	fmt.Fprintf(&sb, "body_max: %d\n", bodyMax)
	fmt.Fprintf(&sb, "notes: %s\n", in.Format.Notes)
	fmt.Fprintf(&sb, "output_template: %s", in.Format.OutputTemplate)
	sb.WriteString("\n\n[CONSTRAINTS]\n")
	sb.WriteString(constraints)
	sb.WriteString("\n\n[VARIANTS_PER_SEGMENT]\n")
	fmt.Fprintf(&sb, "%d", in.VariantsPerSegment)
	sb.WriteString("\n\n[VARIABILITY_LEVEL]\n")
	sb.WriteString(in.Variability)
	sb.WriteString("\n\n[OUTPUT_SCHEMA]\n")
	sb.WriteString(outputSchemaHint)
	sb.WriteString("\n\n")
	sb.WriteString(outputRules)
	sb.WriteString("\n")

	return sb.String(), nil
}

func segmentBlock(s catalog.Segment) string {
	return fmt.Sprintf(
		"- Segment: %s (%s)\n"+
			"  who: %s\n"+
			"  pains: %s\n"+
			"  triggers: %s\n"+
			"  taboos: %s\n"+
			"  tone_hint: %s\n"+
			"  cta_style: %s",
		s.Name, s.SegmentID,
		s.Who,
		strings.Join(s.Pains, ", "),
		strings.Join(s.Triggers, ", "),
		strings.Join(s.Taboos, ", "),
		s.ToneHint,
		s.CTAStyle,
	)
}

const rolePreamble = `[ROLE]
You are an editor and marketer. Generate text variations per audience segment.
Do not invent facts. Respect the constraints and the format limits.
Return strictly JSON matching the schema. No explanations outside the JSON.`

// outputSchemaHint mirrors the validation schema so the model sees exactly
// the shape the validator will demand.
const outputSchemaHint = `{
  "version": "string",
  "input_echo": {
    "base_text": "string",
    "tone": "friendly|neutral|formal|bold",
    "format_id": "string",
    "variants_per_segment": "number",
    "constraints": ["string"],
    "assumptions": ["string"]
  },
  "questions": [{"q": "string", "why": "string", "priority": "P0|P1|P2"}],
  "segments": [
    {
      "segment_id": "string",
      "segment_name": "string",
      "core_insight": "string",
      "trigger": "string",
      "angle": "string",
      "copies": [
        {
          "headline": "string",
          "body": "string",
          "cta": "string",
          "rationale": "string",
          "char_count": {"headline": "number", "body": "number"},
          "risk_flags": [{"type": "string", "note": "string", "suggest_fix": "string"}]
        }
      ],
      "differences_note": "string"
    }
  ],
  "global_risks": [{"risk": "string", "impact": "string", "mitigation": "string"}],
  "export_hints": {"how_to_use": ["string"], "ab_test_suggestions": ["string"]},
  "exec_summary": {"for_marketer": "string", "for_non_tech_manager": "string"}
}`

const outputRules = `Important:
1) segments.length must equal the number of selected segments.
2) copies.length must equal variants_per_segment.
3) Always compute char_count.
4) For risks use only these types: forbidden_claims, compliance_sensitive, vague_offer, missing_proof, format_overflow.
5) If text exceeds the limits, shorten it. If you cannot, set format_overflow with a suggest_fix.`
