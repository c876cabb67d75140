// Package export renders a validated copy bundle into the formats marketers
// actually hand off: CSV for spreadsheets, JSON for tooling, and a Markdown
// matrix for review docs. Only validated bundles ever reach this package.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"segcraft/internal/schema"
)

// csvHeader is the fixed CSV column order. One row per copy variant.
var csvHeader = []string{
	"segment_id",
	"segment_name",
	"variant",
	"headline",
	"body",
	"cta",
	"rationale",
	"headline_chars",
	"body_chars",
	"risk_flags",
}

// CSV renders the bundle as CSV: a header row plus one row per variant, in
// segment order.
func CSV(b *schema.CopyBundle) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, seg := range b.Segments {
		for i, c := range seg.Copies {
			row := []string{
				seg.SegmentID,
				seg.SegmentName,
				fmt.Sprintf("%d", i+1),
				c.Headline,
				c.Body,
				c.CTA,
				c.Rationale,
				fmt.Sprintf("%d", c.CharCount.Headline),
				fmt.Sprintf("%d", c.CharCount.Body),
				joinRiskTypes(c.RiskFlags),
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON renders the bundle as indented JSON, byte-stable for identical input.
func JSON(b *schema.CopyBundle) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bundle: %w", err)
	}
	return append(data, '\n'), nil
}

// p0RiskTypes are the risk types serious enough to surface in the compact
// Markdown matrix when filtering is on.
var p0RiskTypes = map[string]bool{
	schema.RiskForbiddenClaims:     true,
	schema.RiskComplianceSensitive: true,
	schema.RiskFormatOverflow:      true,
}

// MarkdownMatrix renders a per-segment comparison table. With p0Only set,
// only the serious risk types appear in the risks column.
func MarkdownMatrix(b *schema.CopyBundle, p0Only bool) []byte {
	var sb strings.Builder

	sb.WriteString("# Copy matrix\n")
	for _, seg := range b.Segments {
		fmt.Fprintf(&sb, "\n## %s (%s)\n\n", seg.SegmentName, seg.SegmentID)
		if seg.CoreInsight != "" {
			fmt.Fprintf(&sb, "Insight: %s\n\n", seg.CoreInsight)
		}
		sb.WriteString("| # | Headline | Body | CTA | Chars | Risks |\n")
		sb.WriteString("|---|----------|------|-----|-------|-------|\n")
		for i, c := range seg.Copies {
			fmt.Fprintf(&sb, "| %d | %s | %s | %s | %d/%d | %s |\n",
				i+1,
				mdCell(c.Headline),
				mdCell(c.Body),
				mdCell(c.CTA),
				c.CharCount.Headline, c.CharCount.Body,
				riskCell(c.RiskFlags, p0Only),
			)
		}
	}

	return []byte(sb.String())
}

func riskCell(flags []schema.RiskFlag, p0Only bool) string {
	var types []string
	for _, f := range flags {
		if p0Only && !p0RiskTypes[f.Type] {
			continue
		}
		types = append(types, f.Type)
	}
	if len(types) == 0 {
		return "-"
	}
	return strings.Join(types, ", ")
}

func joinRiskTypes(flags []schema.RiskFlag) string {
	types := make([]string, 0, len(flags))
	for _, f := range flags {
		types = append(types, f.Type)
	}
	return strings.Join(types, ";")
}

func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
