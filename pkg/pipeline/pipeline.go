// Package pipeline provides the core publishing pipeline for Articleflow.
//
// This package implements the complete layout → snapshot pipeline that can
// be used by CLI and preview-server components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Run the flow engine over template + catalog + master text at
//     one breakpoint, producing a layout instance
//  2. Snapshot: Render the layout instance to final article markup
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage's artifact is cached by a content hash of its inputs.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Template:   tpl,
//	    Catalog:    cat,
//	    Text:       masterText,
//	    Breakpoint: "desktop",
//	    Images:     images,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Snapshot
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/cache"
	"github.com/syednoorhussain2025/articleflow/pkg/errors"
	"github.com/syednoorhussain2025/articleflow/pkg/flow"
	"github.com/syednoorhussain2025/articleflow/pkg/measure"
	"github.com/syednoorhussain2025/articleflow/pkg/snapshot"
)

// DefaultBreakpoint is used when options leave the breakpoint empty.
const DefaultBreakpoint = catalog.BreakpointDesktop

// MeasurerNone is the measurer fingerprint recorded when no fit-check
// oracle is configured.
const MeasurerNone = "none"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Layout inputs
	Template   catalog.TemplateDef `json:"template"`
	Catalog    catalog.Catalog     `json:"catalog"`
	Text       string              `json:"text"`
	Breakpoint string              `json:"breakpoint"`

	// MeasurerKey fingerprints the measurement environment so layouts
	// computed under different oracles (or none) cache separately.
	// Defaults to MeasurerNone when no Measurer is set.
	MeasurerKey string `json:"measurer_key,omitempty"`

	// Strict runs catalog.Validate before layout. The engine itself
	// tolerates unknown section references; strict mode fails fast on
	// authoring errors instead.
	Strict bool `json:"strict,omitempty"`

	// Render options
	Document bool   `json:"document,omitempty"`
	Title    string `json:"title,omitempty"`

	// Refresh bypasses the cache for reads (results are still stored).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Measurer measure.Measurer     `json:"-"`
	Images   snapshot.ImageSource `json:"-"`
	Resolve  snapshot.URLResolver `json:"-"`
	Logger   *log.Logger          `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Breakpoint == "" {
		o.Breakpoint = string(DefaultBreakpoint)
	}
	if _, err := catalog.ParseBreakpoint(o.Breakpoint); err != nil {
		return err
	}
	if o.Catalog == nil {
		o.Catalog = catalog.Builtin()
	}
	if o.Template.ID == "" {
		o.Template = catalog.BuiltinTemplate()
	}
	if o.MeasurerKey == "" {
		o.MeasurerKey = MeasurerNone
	}
	if o.Images == nil {
		o.Images = snapshot.NoImages
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Strict {
		if err := catalog.Validate(o.Template, o.Catalog); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// EngineInput builds the flow engine input from the options.
func (o *Options) EngineInput() flow.Input {
	return flow.Input{
		Template:   o.Template,
		Catalog:    o.Catalog,
		Text:       o.Text,
		Breakpoint: catalog.Breakpoint(o.Breakpoint),
	}
}

// SnapshotKeyOpts returns cache key options for snapshot rendering.
func (o *Options) SnapshotKeyOpts() cache.SnapshotKeyOpts {
	return cache.SnapshotKeyOpts{
		Document: o.Document,
		Title:    o.Title,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this pipeline run in logs and scoped cache keys.
	RunID string

	// Layout is the computed layout instance.
	Layout flow.Instance

	// LayoutHash is the content hash of the layout artifact.
	LayoutHash string

	// Snapshot is the rendered article markup.
	Snapshot []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlockCount   int
	TextChars    int
	LayoutTime   time.Duration
	SnapshotTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit   bool // Whether the layout instance came from cache
	SnapshotHit bool // Whether the snapshot came from cache
}

// =============================================================================
// Validation helpers
// =============================================================================

// ValidateBreakpoints checks a list of breakpoint strings.
func ValidateBreakpoints(bps []string) error {
	if len(bps) == 0 {
		return errors.New(errors.ErrCodeInvalidBreakpoint, "at least one breakpoint is required")
	}
	for _, bp := range bps {
		if _, err := catalog.ParseBreakpoint(bp); err != nil {
			return err
		}
	}
	return nil
}
