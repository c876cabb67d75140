package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Violation names one field-level rule failure. Field is a dotted path into
// the document (list indexes in brackets).
type Violation struct {
	Field   string
	Rule    string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Field, v.Message, v.Rule)
}

// Rule identifiers used in violations.
const (
	RuleRequired = "required"
	RuleEnum     = "enum"
	RulePattern  = "pattern"
	RuleRange    = "range"
	RuleLength   = "length"
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// Decode parses raw JSON into a CopyBundle without validating it. Callers
// are expected to run Validate before surfacing the result.
func Decode(raw []byte) (*CopyBundle, error) {
	var b CopyBundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks a candidate bundle against the schema contract. It is a
// pure function: no side effects, deterministic output. An empty slice means
// the bundle is accepted.
func Validate(b *CopyBundle) []Violation {
	var vs []Violation

	if !versionPattern.MatchString(b.Version) {
		vs = append(vs, Violation{
			Field:   "version",
			Rule:    RulePattern,
			Message: fmt.Sprintf("must match %s, got %q", versionPattern, b.Version),
		})
	}

	vs = append(vs, validateInputEcho(&b.InputEcho)...)

	for i, q := range b.Questions {
		if !contains(Priorities, q.Priority) {
			vs = append(vs, Violation{
				Field:   fmt.Sprintf("questions[%d].priority", i),
				Rule:    RuleEnum,
				Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(Priorities, "|"), q.Priority),
			})
		}
	}

	if len(b.Segments) == 0 {
		vs = append(vs, Violation{
			Field:   "segments",
			Rule:    RuleRequired,
			Message: "at least one segment is required",
		})
	}
	for i := range b.Segments {
		vs = append(vs, validateSegment(&b.Segments[i], i, b.InputEcho.VariantsPerSegment)...)
	}

	if b.ExecSummary.ForMarketer == "" {
		vs = append(vs, required("exec_summary.for_marketer"))
	}
	if b.ExecSummary.ForNonTechManager == "" {
		vs = append(vs, required("exec_summary.for_non_tech_manager"))
	}

	return vs
}

func validateInputEcho(e *InputEcho) []Violation {
	var vs []Violation
	if e.BaseText == "" {
		vs = append(vs, required("input_echo.base_text"))
	}
	if !contains(Tones, e.Tone) {
		vs = append(vs, Violation{
			Field:   "input_echo.tone",
			Rule:    RuleEnum,
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(Tones, "|"), e.Tone),
		})
	}
	if e.FormatID == "" {
		vs = append(vs, required("input_echo.format_id"))
	}
	if e.VariantsPerSegment < MinVariantsPerSegment || e.VariantsPerSegment > MaxVariantsPerSegment {
		vs = append(vs, Violation{
			Field:   "input_echo.variants_per_segment",
			Rule:    RuleRange,
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinVariantsPerSegment, MaxVariantsPerSegment, e.VariantsPerSegment),
		})
	}
	return vs
}

func validateSegment(s *SegmentCopy, idx, wantCopies int) []Violation {
	var vs []Violation
	prefix := fmt.Sprintf("segments[%d]", idx)

	if s.SegmentID == "" {
		vs = append(vs, required(prefix+".segment_id"))
	}
	if s.SegmentName == "" {
		vs = append(vs, required(prefix+".segment_name"))
	}

	// copies.length must match variants_per_segment for every segment.
	if wantCopies >= MinVariantsPerSegment && len(s.Copies) != wantCopies {
		vs = append(vs, Violation{
			Field:   prefix + ".copies",
			Rule:    RuleLength,
			Message: fmt.Sprintf("must contain exactly %d variants (variants_per_segment), got %d", wantCopies, len(s.Copies)),
		})
	}

	for j := range s.Copies {
		vs = append(vs, validateCopy(&s.Copies[j], fmt.Sprintf("%s.copies[%d]", prefix, j))...)
	}
	return vs
}

func validateCopy(c *CopyVariant, prefix string) []Violation {
	var vs []Violation
	if c.Headline == "" {
		vs = append(vs, required(prefix+".headline"))
	}
	if c.Body == "" {
		vs = append(vs, required(prefix+".body"))
	}
	if c.CTA == "" {
		vs = append(vs, required(prefix+".cta"))
	}
	for k, f := range c.RiskFlags {
		if !contains(RiskTypes, f.Type) {
			vs = append(vs, Violation{
				Field:   fmt.Sprintf("%s.risk_flags[%d].type", prefix, k),
				Rule:    RuleEnum,
				Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(RiskTypes, "|"), f.Type),
			})
		}
	}
	return vs
}

func required(field string) Violation {
	return Violation{Field: field, Rule: RuleRequired, Message: "field is required"}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// NormalizeCharCounts recomputes every variant's char_count from the actual
// headline/body text and replaces nil risk-flag slices with empty ones.
// Lengths are counted in runes, matching what ad platforms enforce.
func NormalizeCharCounts(b *CopyBundle) {
	for i := range b.Segments {
		for j := range b.Segments[i].Copies {
			c := &b.Segments[i].Copies[j]
			c.CharCount = CharCount{
				Headline: utf8.RuneCountInString(c.Headline),
				Body:     utf8.RuneCountInString(c.Body),
			}
			if c.RiskFlags == nil {
				c.RiskFlags = []RiskFlag{}
			}
		}
	}
}

// FormatLimits carries the per-format text bounds used by EnforceFormatLimits.
type FormatLimits struct {
	HeadlineMax int `json:"headline_max"`
	BodyMax     int `json:"body_max"`
}

// EnforceFormatLimits truncates headline/body text that exceeds the format
// limits and tags each truncated variant with a format_overflow risk flag,
// then recomputes char counts. A zero limit disables the corresponding bound.
func EnforceFormatLimits(b *CopyBundle, limits FormatLimits) {
	for i := range b.Segments {
		for j := range b.Segments[i].Copies {
			c := &b.Segments[i].Copies[j]
			overflow := false
			if limits.HeadlineMax > 0 && utf8.RuneCountInString(c.Headline) > limits.HeadlineMax {
				c.Headline = truncateRunes(c.Headline, limits.HeadlineMax)
				overflow = true
			}
			if limits.BodyMax > 0 && utf8.RuneCountInString(c.Body) > limits.BodyMax {
				c.Body = truncateRunes(c.Body, limits.BodyMax)
				overflow = true
			}
			if overflow {
				c.RiskFlags = append(c.RiskFlags, RiskFlag{
					Type:       RiskFormatOverflow,
					Note:       "text was automatically truncated to the format limit",
					SuggestFix: "shorten the wording manually while keeping the key message",
				})
			}
		}
	}
	NormalizeCharCounts(b)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max]), " \t")
}
