// Package catalog loads the segment and format fixture files. Both files are
// ordered JSON arrays read once at startup; the definitions are immutable
// afterwards.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"segcraft/internal/schema"
)

// Segment is an audience category used to tailor ad copy tone and content.
type Segment struct {
	SegmentID               string   `json:"segment_id"`
	Name                    string   `json:"name"`
	Who                     string   `json:"who"`
	JobToBeDone             string   `json:"job_to_be_done"`
	Pains                   []string `json:"pains"`
	Triggers                []string `json:"triggers"`
	Taboos                  []string `json:"taboos"`
	ToneHint                string   `json:"tone_hint"`
	CTAStyle                string   `json:"cta_style"`
	ExampleOfferAdaptations []string `json:"example_offer_adaptations"`
}

// Label returns the display label used in catalog listings.
func (s Segment) Label() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.SegmentID)
}

// Format is a target advertising channel with its own text constraints.
type Format struct {
	FormatID       string              `json:"format_id"`
	Name           string              `json:"name"`
	Limits         schema.FormatLimits `json:"limits"`
	OutputTemplate string              `json:"output_template"`
	Notes          string              `json:"notes"`
}

// Catalog holds the loaded segment and format definitions in file order.
type Catalog struct {
	segments []Segment
	formats  []Format

	segmentByID map[string]int
	formatByID  map[string]int
}

// Load reads both fixture files and indexes them by ID.
func Load(segmentsPath, formatsPath string) (*Catalog, error) {
	segments, err := loadJSON[Segment](segmentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load segments: %w", err)
	}
	formats, err := loadJSON[Format](formatsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load formats: %w", err)
	}

	c := &Catalog{
		segments:    segments,
		formats:     formats,
		segmentByID: make(map[string]int, len(segments)),
		formatByID:  make(map[string]int, len(formats)),
	}
	for i, s := range segments {
		if s.SegmentID == "" {
			return nil, fmt.Errorf("segment %d in %s has no segment_id", i, segmentsPath)
		}
		c.segmentByID[s.SegmentID] = i
	}
	for i, f := range formats {
		if f.FormatID == "" {
			return nil, fmt.Errorf("format %d in %s has no format_id", i, formatsPath)
		}
		c.formatByID[f.FormatID] = i
	}
	return c, nil
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return items, nil
}

// Segments returns all segments in file order.
func (c *Catalog) Segments() []Segment { return c.segments }

// Formats returns all formats in file order.
func (c *Catalog) Formats() []Format { return c.formats }

// Segment looks up a segment by ID.
func (c *Catalog) Segment(id string) (Segment, bool) {
	i, ok := c.segmentByID[id]
	if !ok {
		return Segment{}, false
	}
	return c.segments[i], true
}

// Format looks up a format by ID.
func (c *Catalog) Format(id string) (Format, bool) {
	i, ok := c.formatByID[id]
	if !ok {
		return Format{}, false
	}
	return c.formats[i], true
}

// SelectSegments resolves a list of segment IDs, preserving catalog order.
// Unknown IDs produce an error naming the first offender.
func (c *Catalog) SelectSegments(ids []string) ([]Segment, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := c.segmentByID[id]; !ok {
			return nil, fmt.Errorf("unknown segment: %s", id)
		}
		want[id] = true
	}
	var out []Segment
	for _, s := range c.segments {
		if want[s.SegmentID] {
			out = append(out, s)
		}
	}
	return out, nil
}

// CustomSegment builds an ad-hoc segment from free text, the same way the UI
// flow turns a typed-in audience description into a selectable segment.
func CustomSegment(text string) Segment {
	text = strings.TrimSpace(text)
	name := "Custom segment"
	if text != "" {
		name = text
		if i := strings.IndexByte(name, '.'); i > 0 {
			name = name[:i]
		}
		if runes := []rune(name); len(runes) > 48 {
			name = string(runes[:48])
		}
	}
	return Segment{
		SegmentID:   "custom_segment",
		Name:        name,
		Who:         text,
		JobToBeDone: text,
		Pains:       []string{},
		Triggers:    []string{"Relevant per the user-provided description"},
		Taboos:      []string{},
		ToneHint:    "Follow the custom segment context",
		CTAStyle:    "Neutral",
	}
}
