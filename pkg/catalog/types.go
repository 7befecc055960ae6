package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/syednoorhussain2025/articleflow/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Breakpoint is one of the fixed set of responsive layout modes.
// The core never observes viewport size; callers supply the breakpoint.
type Breakpoint string

// Supported breakpoints.
const (
	BreakpointMobile  Breakpoint = "mobile"
	BreakpointTablet  Breakpoint = "tablet"
	BreakpointDesktop Breakpoint = "desktop"
)

// Breakpoints lists all supported breakpoints in ascending width order.
var Breakpoints = []Breakpoint{BreakpointMobile, BreakpointTablet, BreakpointDesktop}

// ParseBreakpoint validates a breakpoint string.
func ParseBreakpoint(s string) (Breakpoint, error) {
	switch Breakpoint(s) {
	case BreakpointMobile, BreakpointTablet, BreakpointDesktop:
		return Breakpoint(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidBreakpoint,
		"invalid breakpoint: %q (must be one of: mobile, tablet, desktop)", s)
}

// BlockKind discriminates the block variants inside a section.
type BlockKind string

// Block kinds.
const (
	KindText     BlockKind = "text"
	KindImage    BlockKind = "image"
	KindQuote    BlockKind = "quote"
	KindCarousel BlockKind = "carousel"
)

// Section roles. RoleAside marks the inline-aside section kind whose
// rendering order is structurally fixed (image first) regardless of
// authoring order.
const (
	RoleAside = "aside"
)

// AsideSectionType is the well-known id of the inline-aside shape. Sections
// with this type are treated as asides even when Role is absent, so that
// catalogs authored before the Role field keep their behavior.
const AsideSectionType = "inlineAside"

// =============================================================================
// Geometry
// =============================================================================

// HeightPolicy is either "auto" or "fixed:<px>". It is purely descriptive:
// the engine only extracts the fixed pixel value (if any) as the default
// height cap for fit checks.
type HeightPolicy string

// HeightAuto is the unconstrained height policy.
const HeightAuto HeightPolicy = "auto"

// Fixed builds a fixed height policy from a pixel value.
func Fixed(px float64) HeightPolicy {
	return HeightPolicy("fixed:" + strconv.FormatFloat(px, 'f', -1, 64))
}

// FixedPx returns the pixel value of a fixed height policy.
// The second return is false for "auto", empty, or malformed policies.
func (h HeightPolicy) FixedPx() (float64, bool) {
	s, ok := strings.CutPrefix(string(h), "fixed:")
	if !ok {
		return 0, false
	}
	px, err := strconv.ParseFloat(s, 64)
	if err != nil || px <= 0 {
		return 0, false
	}
	return px, true
}

// Geometry describes one section shape at one breakpoint. The column layout
// and gap are carried through to the snapshot renderer as CSS hints; only
// the height policy participates in layout decisions.
type Geometry struct {
	Columns int          `toml:"columns" json:"columns"`
	GapPx   float64      `toml:"gap_px,omitempty" json:"gap_px,omitempty"`
	Height  HeightPolicy `toml:"height,omitempty" json:"height,omitempty"`
}

// =============================================================================
// Text Policy
// =============================================================================

// TextPolicy governs how much master text one text block consumes.
//
// TargetWords is required. MinWords and MaxWords default to 75% and 125% of
// the target (rounded) when zero. SnapToSentence defaults to true when nil.
// MaxHeightPx, when positive, overrides the section geometry's fixed height
// as the cap for the fit check.
type TextPolicy struct {
	TargetWords    int     `toml:"target_words" json:"target_words"`
	MinWords       int     `toml:"min_words,omitempty" json:"min_words,omitempty"`
	MaxWords       int     `toml:"max_words,omitempty" json:"max_words,omitempty"`
	SnapToSentence *bool   `toml:"snap_to_sentence,omitempty" json:"snap_to_sentence,omitempty"`
	MaxHeightPx    float64 `toml:"max_height_px,omitempty" json:"max_height_px,omitempty"`
}

// Window resolves the word-count window: the effective min, max, and the
// clamped take count. Malformed bounds (max < min) are not validated here;
// the caller owns policy sanity, per the engine's error taxonomy.
func (p TextPolicy) Window() (minWords, maxWords, take int) {
	minWords = p.MinWords
	if minWords == 0 {
		minWords = int(math.Round(0.75 * float64(p.TargetWords)))
	}
	maxWords = p.MaxWords
	if maxWords == 0 {
		maxWords = int(math.Round(1.25 * float64(p.TargetWords)))
	}
	take = p.TargetWords
	if take < minWords {
		take = minWords
	}
	if take > maxWords {
		take = maxWords
	}
	return minWords, maxWords, take
}

// Snap reports whether sentence snapping is enabled (default true).
func (p TextPolicy) Snap() bool {
	return p.SnapToSentence == nil || *p.SnapToSentence
}

// =============================================================================
// Section Definitions
// =============================================================================

// BlockDef is the smallest unit inside a section. Blocks never hold content,
// only identity and fitting rules: text is assigned by the engine, images
// are resolved by the snapshot renderer.
type BlockDef struct {
	ID   string    `toml:"id" json:"id"`
	Kind BlockKind `toml:"kind" json:"kind"`

	// Text blocks only.
	AcceptsTextFlow bool       `toml:"accepts_text_flow,omitempty" json:"accepts_text_flow,omitempty"`
	Policy          TextPolicy `toml:"policy,omitempty" json:"policy,omitempty"`

	// Image and quote blocks only.
	ImageSlotID string `toml:"slot,omitempty" json:"slot,omitempty"`

	// Carousel blocks only.
	ImageSlotIDs []string `toml:"slots,omitempty" json:"slots,omitempty"`
}

// SectionDef is a reusable section shape: identity, per-breakpoint geometry,
// and an ordered list of blocks. Authored once, read-only at layout time.
type SectionDef struct {
	Type     string                  `toml:"type" json:"type"`
	Version  int                     `toml:"version" json:"version"`
	Role     string                  `toml:"role,omitempty" json:"role,omitempty"`
	Geometry map[Breakpoint]Geometry `toml:"geometry" json:"geometry"`
	Blocks   []BlockDef              `toml:"block" json:"blocks"`
}

// IsAside reports whether this is the inline-aside section kind.
func (s *SectionDef) IsAside() bool {
	if s.Role != "" {
		return s.Role == RoleAside
	}
	return s.Type == AsideSectionType
}

// FixedHeightAt returns the fixed height (px) of the section's geometry at
// the given breakpoint, or false when the geometry is absent or auto.
func (s *SectionDef) FixedHeightAt(bp Breakpoint) (float64, bool) {
	geo, ok := s.Geometry[bp]
	if !ok {
		return 0, false
	}
	return geo.Height.FixedPx()
}

// =============================================================================
// Templates
// =============================================================================

// Overflow strategies for text that exceeds the template's total capacity.
const (
	OverflowContinue = "continue" // unconsumed tail is dropped silently
	OverflowStop     = "stop"     // unconsumed tail is surfaced as leftover
)

// SectionRef is an ordered reference from a template into the catalog.
type SectionRef struct {
	Type    string `toml:"type" json:"type"`
	Version int    `toml:"version" json:"version"`
}

// TemplateDef is an ordered list of section references plus the two policy
// flags governing the end of the walk.
type TemplateDef struct {
	ID       string       `toml:"id" json:"id"`
	Version  int          `toml:"version" json:"version"`
	Sections []SectionRef `toml:"sections" json:"sections"`

	// TruncateOnTextEnd stops consuming sections once all text is assigned.
	// Defaults to true when nil.
	TruncateOnTextEnd *bool `toml:"truncate_on_text_end,omitempty" json:"truncate_on_text_end,omitempty"`

	// OverflowStrategy is "continue" (default) or "stop".
	OverflowStrategy string `toml:"overflow_strategy,omitempty" json:"overflow_strategy,omitempty"`
}

// Truncate reports whether the section walk stops once text is exhausted
// (default true).
func (t *TemplateDef) Truncate() bool {
	return t.TruncateOnTextEnd == nil || *t.TruncateOnTextEnd
}

// Overflow returns the effective overflow strategy.
func (t *TemplateDef) Overflow() string {
	if t.OverflowStrategy == OverflowStop {
		return OverflowStop
	}
	return OverflowContinue
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog maps section type ids to their definitions.
type Catalog map[string]SectionDef

// Lookup resolves a section reference. The version in the ref is currently
// informational: the catalog stores one version per type id.
func (c Catalog) Lookup(ref SectionRef) (SectionDef, bool) {
	def, ok := c[ref.Type]
	return def, ok
}

// Validate checks that every section reference in the template resolves in
// the catalog. The flow engine itself tolerates unknown references (it skips
// them); this helper exists for callers that want strict authoring checks
// before computing a layout.
func Validate(tpl TemplateDef, cat Catalog) error {
	if tpl.ID == "" {
		return errors.New(errors.ErrCodeInvalidTemplate, "template id cannot be empty")
	}
	if len(tpl.Sections) == 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %q has no sections", tpl.ID)
	}
	switch tpl.OverflowStrategy {
	case "", OverflowContinue, OverflowStop:
	default:
		return errors.New(errors.ErrCodeInvalidTemplate,
			"template %q: invalid overflow strategy %q", tpl.ID, tpl.OverflowStrategy)
	}
	for i, ref := range tpl.Sections {
		if _, ok := cat.Lookup(ref); !ok {
			return errors.New(errors.ErrCodeSectionNotFound,
				"template %q: section %d references unknown type %q", tpl.ID, i, ref.Type)
		}
	}
	for id, def := range cat {
		for _, b := range def.Blocks {
			if b.Kind == KindText && b.AcceptsTextFlow && b.Policy.TargetWords <= 0 {
				return errors.New(errors.ErrCodeInvalidPolicy,
					"section %q block %q: text flow block requires target_words", id, b.ID)
			}
		}
	}
	return nil
}

// instanceKeySep joins the section type id and the occurrence counter.
const instanceKeySep = "#"

// InstanceKey formats a section instance key: "<sectionTypeId>#<n>" with a
// 1-based occurrence counter local to one engine invocation.
func InstanceKey(sectionType string, n int) string {
	return fmt.Sprintf("%s%s%d", sectionType, instanceKeySep, n)
}
