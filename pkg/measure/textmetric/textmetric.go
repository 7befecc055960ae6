// Package textmetric provides a headless implementation of the fit-check
// oracle backed by real font metrics.
//
// # Overview
//
// The live oracle measures text by writing it into a hidden DOM node. For
// server-side snapshot pre-generation there is no DOM, so this package
// approximates the same answer with github.com/tdewolff/canvas font shaping:
// it greedily wraps the candidate text into lines at the style's column
// width using true glyph advance widths, multiplies the line count by the
// style's line height, and compares against the cap.
//
// # Usage
//
//	ruler, err := textmetric.New(textmetric.Config{FontPath: "fonts/Inter-Regular.ttf"})
//	if err != nil { ... }
//	ruler.Register("twoColumn_columnText_desktop", textmetric.TextStyle{
//	    FontSizePt:    11,
//	    LineHeightPx:  26,
//	    ColumnWidthPx: 560,
//	})
//	inst := flow.Compute(input, ruler)
//
// A Ruler reuses one font face state across calls and resets the measured
// text per call; like the DOM-backed oracle it must not be shared between
// concurrent layout computations.
package textmetric

import (
	"os"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/syednoorhussain2025/articleflow/pkg/errors"
	"github.com/syednoorhussain2025/articleflow/pkg/measure"
)

// pxToMM converts CSS pixels to canvas millimetres at the standard 96dpi.
const pxToMM = 25.4 / 96.0

// TextStyle describes how one style signature renders text.
type TextStyle struct {
	FontSizePt    float64 // font size in points
	LineHeightPx  float64 // vertical advance per wrapped line, in px
	ColumnWidthPx float64 // available line width, in px
}

// DefaultStyle approximates the article body style and is used for
// signatures with no registered style.
var DefaultStyle = TextStyle{
	FontSizePt:    11,
	LineHeightPx:  26,
	ColumnWidthPx: 680,
}

// Config configures a Ruler.
type Config struct {
	// FontPath points at a TTF/OTF file whose metrics approximate the
	// published body font.
	FontPath string

	// Default overrides DefaultStyle when non-zero.
	Default TextStyle
}

// Ruler is a headless measure.Measurer. Create with New, register styles
// with Register. Not safe for concurrent use.
type Ruler struct {
	family *canvas.FontFamily
	styles map[string]TextStyle
	def    TextStyle
}

// New loads the font and returns a ready Ruler.
func New(cfg Config) (*Ruler, error) {
	data, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "read font %s", cfg.FontPath)
	}

	family := canvas.NewFontFamily("articleflow-body")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "load font %s", cfg.FontPath)
	}

	def := cfg.Default
	if def == (TextStyle{}) {
		def = DefaultStyle
	}
	return &Ruler{
		family: family,
		styles: make(map[string]TextStyle),
		def:    def,
	}, nil
}

// Register binds a style signature to a concrete text style. Signatures are
// matched exactly; the engine sanitizes them before they reach the Ruler.
func (r *Ruler) Register(signature string, st TextStyle) {
	r.styles[signature] = st
}

// Style returns the style for a signature, falling back to the default.
func (r *Ruler) Style(signature string) TextStyle {
	if st, ok := r.styles[signature]; ok {
		return st
	}
	return r.def
}

// Overflows implements measure.Measurer. A non-positive cap never overflows.
func (r *Ruler) Overflows(text, styleSignature string, maxHeightPx float64) bool {
	if maxHeightPx <= 0 {
		return false
	}
	st := r.Style(styleSignature)
	lines := r.countLines(text, st)
	return float64(lines)*st.LineHeightPx > maxHeightPx
}

// countLines greedily wraps text into the style's column width and returns
// the resulting line count. Explicit newlines force a break; blank lines
// (paragraph boundaries) cost one extra line of vertical space, matching
// the paragraph margin of the published stylesheet.
func (r *Ruler) countLines(text string, st TextStyle) int {
	face := r.family.Face(st.FontSizePt, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	limit := st.ColumnWidthPx * pxToMM
	spaceW := face.TextWidth(" ")

	lines := 0
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines++ // blank line keeps its vertical slot
			continue
		}
		cur := 0.0
		lines++
		for _, w := range words {
			ww := face.TextWidth(w)
			if cur > 0 && cur+spaceW+ww > limit {
				lines++
				cur = ww
				continue
			}
			if cur > 0 {
				cur += spaceW
			}
			cur += ww
		}
	}
	return lines
}

var _ measure.Measurer = (*Ruler)(nil)
