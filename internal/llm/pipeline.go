package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"segcraft/internal/catalog"
	"segcraft/internal/promptbuild"
	"segcraft/internal/schema"
)

// Generation modes reported on a Result.
const (
	ModeMock = "mock"
	ModeLive = "live"
)

// Request is one generation request: user-supplied brand/offer text plus the
// chosen segments and format. Created per interaction, never persisted.
type Request struct {
	// ID correlates logs and history rows. Assigned when empty.
	ID string

	BaseText       string
	ProductContext string

	SegmentIDs    []string
	CustomSegment string

	FormatID           string
	Tone               string
	Language           string
	VariantsPerSegment int
	Variability        string
	Constraints        []string

	// ForceMock skips the live call even when a credential is configured.
	ForceMock bool
}

// Result is a schema-validated generation outcome.
type Result struct {
	Bundle    *schema.CopyBundle
	Mode      string
	Raw       string
	Repaired  bool
	RequestID string
	Duration  time.Duration
}

// Pipeline runs prompt build, the provider call (or mock fixture load), and
// validation with a single bounded repair attempt. Each Generate call is
// synchronous and independent; no mutable state persists between calls.
type Pipeline struct {
	client     LLMClient // nil means mock mode
	catalog    *catalog.Catalog
	samplesDir string
	log        *zap.Logger
}

// NewPipeline wires a pipeline. A nil client pins the pipeline to mock mode.
func NewPipeline(client LLMClient, cat *catalog.Catalog, samplesDir string, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		client:     client,
		catalog:    cat,
		samplesDir: samplesDir,
		log:        log,
	}
}

// Generate produces a schema-valid copy bundle or a typed failure.
//
// Missing input fails before any external call. Network errors surface
// immediately without retry. Parse and schema failures get exactly one
// repair attempt; a second failure is returned as a typed error. Values are
// never fabricated to satisfy the schema.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	format, ok := p.catalog.Format(req.FormatID)
	if !ok {
		if req.FormatID == "" {
			return nil, &promptbuild.MissingInputError{Field: "format_id"}
		}
		return nil, fmt.Errorf("unknown format: %q", req.FormatID)
	}

	segments, err := p.catalog.SelectSegments(req.SegmentIDs)
	if err != nil {
		return nil, err
	}
	if req.CustomSegment != "" {
		segments = append(segments, catalog.CustomSegment(req.CustomSegment))
	}

	prompt, err := promptbuild.Build(promptbuild.Input{
		BaseText:           req.BaseText,
		Context:            req.ProductContext,
		Segments:           segments,
		Format:             format,
		Constraints:        req.Constraints,
		Tone:               req.Tone,
		Language:           req.Language,
		VariantsPerSegment: req.VariantsPerSegment,
		Variability:        req.Variability,
	})
	if err != nil {
		return nil, err
	}

	if p.client == nil || req.ForceMock {
		bundle, err := LoadMockBundle(p.samplesDir, req.FormatID)
		if err != nil {
			return nil, err
		}
		p.log.Info("generation served from mock fixture",
			zap.String("request_id", req.ID),
			zap.String("format_id", req.FormatID))
		return &Result{
			Bundle:    bundle,
			Mode:      ModeMock,
			RequestID: req.ID,
			Duration:  time.Since(start),
		}, nil
	}

	raw, err := p.client.CompleteWithTemperature(ctx, prompt, defaultTemperature)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	bundle, firstErr := p.decodeAndValidate(raw, format.Limits)
	if firstErr == nil {
		p.log.Info("generation validated on first attempt",
			zap.String("request_id", req.ID),
			zap.Duration("elapsed", time.Since(start)))
		return &Result{
			Bundle:    bundle,
			Mode:      ModeLive,
			Raw:       raw,
			RequestID: req.ID,
			Duration:  time.Since(start),
		}, nil
	}

	p.log.Warn("model response failed validation, attempting repair",
		zap.String("request_id", req.ID),
		zap.String("cause", firstErr.Error()))

	repairedRaw, err := p.client.CompleteWithTemperature(ctx, repairPrompt(raw, firstErr), 0)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	bundle, secondErr := p.decodeAndValidate(repairedRaw, format.Limits)
	if secondErr != nil {
		p.log.Warn("repair attempt failed",
			zap.String("request_id", req.ID),
			zap.String("cause", secondErr.Error()))
		return nil, secondErr
	}

	return &Result{
		Bundle:    bundle,
		Mode:      ModeLive,
		Raw:       repairedRaw,
		Repaired:  true,
		RequestID: req.ID,
		Duration:  time.Since(start),
	}, nil
}

// decodeAndValidate turns raw model text into a validated bundle. Format
// limits are enforced (with format_overflow flags) before validation so the
// surfaced document always carries trusted counts.
func (p *Pipeline) decodeAndValidate(raw string, limits schema.FormatLimits) (*schema.CopyBundle, error) {
	jsonText := extractJSON(raw)
	if jsonText == "" {
		return nil, &ParseError{Raw: raw, Err: errors.New("no JSON object in model response")}
	}

	bundle, err := schema.Decode([]byte(jsonText))
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	schema.EnforceFormatLimits(bundle, limits)
	if vs := schema.Validate(bundle); len(vs) > 0 {
		return nil, &SchemaError{Violations: vs}
	}
	return bundle, nil
}

// repairPrompt asks the model to emit a corrected document. Used exactly
// once per generation.
func repairPrompt(raw string, cause error) string {
	return fmt.Sprintf(
		"Fix the JSON. Return ONLY valid JSON, no markdown and no commentary.\n\n"+
			"Validation error:\n%v\n\n"+
			"Current response:\n%s",
		cause, raw)
}
