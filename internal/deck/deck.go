// Package deck models the pitch-deck configuration document. SegCraft does
// not render slides; it owns the config format and can lint a document before
// it is handed to whatever renders it.
package deck

import (
	"encoding/json"
	"fmt"
	"os"
)

// Project identifies the product the deck pitches.
type Project struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline"`
	OneLiner string `json:"one_liner"`
}

// Style holds the deck-wide visual settings.
type Style struct {
	BgColor     string `json:"bg_color"`
	TextColor   string `json:"text_color"`
	AccentColor string `json:"accent_color"`
	TitleFont   string `json:"title_font"`
	BodyFont    string `json:"body_font"`
}

// Slide is one slide definition.
type Slide struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Notes   string   `json:"notes"`
	Image   string   `json:"image,omitempty"`
}

// Deck is the full deck configuration document.
type Deck struct {
	Project Project `json:"project"`
	Style   Style   `json:"style"`
	Slides  []Slide `json:"slides"`
}

// Load reads and parses a deck configuration file.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck config: %w", err)
	}
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse deck config: %w", err)
	}
	return &d, nil
}

// Problem is one lint finding.
type Problem struct {
	Field   string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Field, p.Message)
}

// Lint checks the deck document for the mistakes that break rendering:
// missing project name, empty or misnumbered slides, untitled slides. An
// empty result means the deck is ready to render.
func (d *Deck) Lint() []Problem {
	var ps []Problem

	if d.Project.Name == "" {
		ps = append(ps, Problem{Field: "project.name", Message: "project name is required"})
	}
	if len(d.Slides) == 0 {
		ps = append(ps, Problem{Field: "slides", Message: "at least one slide is required"})
	}

	for i, s := range d.Slides {
		prefix := fmt.Sprintf("slides[%d]", i)
		if s.Number != i+1 {
			ps = append(ps, Problem{
				Field:   prefix + ".number",
				Message: fmt.Sprintf("slides must be numbered sequentially from 1, got %d", s.Number),
			})
		}
		if s.Title == "" {
			ps = append(ps, Problem{Field: prefix + ".title", Message: "slide title is required"})
		}
		if len(s.Bullets) == 0 && s.Notes == "" && s.Image == "" {
			ps = append(ps, Problem{Field: prefix, Message: "slide has no content (bullets, notes, or image)"})
		}
	}

	return ps
}
