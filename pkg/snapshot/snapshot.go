// Package snapshot turns a computed layout instance into final article
// markup.
//
// # Overview
//
// The renderer groups the engine's flat flow back into section instances
// (first-seen order), recovers each text excerpt by slicing the master
// text, resolves image slots through an [ImageSource], and emits one
// self-contained HTML fragment per article. Missing image content renders a
// visible placeholder carrying the slot id and section instance key, so
// authoring gaps never disappear silently.
//
// One section kind gets structural treatment: for inline-aside sections the
// children are re-ordered so the first image block renders before the text,
// regardless of the order the engine emitted them in. Every other section
// kind renders strictly in emission order.
//
// # Usage
//
//	html, err := snapshot.Render(inst, masterText, images,
//	    snapshot.WithCatalog(cat),
//	    snapshot.WithURLResolver(cdn.Resolve),
//	)
package snapshot

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/flow"
)

// Option configures the renderer.
type Option func(*renderer)

// WithCatalog supplies the section catalog. The renderer uses it for two
// things: identifying inline-aside sections by role, and emitting geometry
// hints (columns, gap) as CSS custom properties. Without a catalog, asides
// are recognized by the well-known section type id and no hints are
// emitted.
func WithCatalog(cat catalog.Catalog) Option {
	return func(r *renderer) { r.catalog = cat }
}

// WithURLResolver installs a storage-path → URL mapping.
func WithURLResolver(resolve URLResolver) Option {
	return func(r *renderer) { r.resolve = resolve }
}

// WithDocument wraps the article fragment in a minimal standalone HTML
// document, used by the preview server and file output.
func WithDocument(title string) Option {
	return func(r *renderer) { r.docTitle = title; r.document = true }
}

type renderer struct {
	catalog  catalog.Catalog
	resolve  URLResolver
	document bool
	docTitle string
}

// sectionGroup collects one section instance's block instances in emission
// order.
type sectionGroup struct {
	key         string
	sectionType string
	blocks      []flow.BlockInstance
}

// Render produces the final markup for a layout instance.
//
// Errors are reserved for instances whose text ranges fall outside the
// master text - the one caller contract the renderer cannot degrade around.
// Everything else (missing images, empty groups) renders best-effort.
func Render(inst flow.Instance, masterText string, images ImageSource, opts ...Option) ([]byte, error) {
	r := renderer{resolve: func(p string) string { return p }}
	for _, opt := range opts {
		opt(&r)
	}
	if images == nil {
		images = NoImages
	}

	for _, b := range inst.Flow {
		if b.IsText() && (b.StartChar < 0 || b.EndChar > len(masterText) || b.StartChar > b.EndChar) {
			return nil, fmt.Errorf("block %s/%s: text range [%d,%d) outside master text of length %d",
				b.SectionKey, b.BlockID, b.StartChar, b.EndChar, len(masterText))
		}
	}

	groups := groupSections(inst.Flow)

	var buf bytes.Buffer
	if r.document {
		writeDocumentHead(&buf, r.docTitle)
	}

	fmt.Fprintf(&buf, "<article class=\"af-article\" data-template=%q data-breakpoint=%q>\n",
		inst.TemplateID, inst.Breakpoint)

	for _, g := range groups {
		r.renderSection(&buf, g, inst.Breakpoint, masterText, images)
	}

	buf.WriteString("</article>\n")
	if r.document {
		buf.WriteString("</body>\n</html>\n")
	}
	return buf.Bytes(), nil
}

// groupSections buckets flow entries by section instance key, preserving
// first-seen section order. Emission order within a group is kept.
func groupSections(blocks []flow.BlockInstance) []sectionGroup {
	var order []string
	byKey := make(map[string]*sectionGroup)
	for _, b := range blocks {
		g, ok := byKey[b.SectionKey]
		if !ok {
			g = &sectionGroup{key: b.SectionKey, sectionType: b.SectionType}
			byKey[b.SectionKey] = g
			order = append(order, b.SectionKey)
		}
		g.blocks = append(g.blocks, b)
	}
	out := make([]sectionGroup, len(order))
	for i, key := range order {
		out[i] = *byKey[key]
	}
	return out
}

// isAside reports whether a section type gets the image-first reordering.
func (r *renderer) isAside(sectionType string) bool {
	if r.catalog != nil {
		if def, ok := r.catalog[sectionType]; ok {
			return def.IsAside()
		}
	}
	return sectionType == catalog.AsideSectionType
}

// orderBlocks applies the inline-aside rule: first image-kind instance,
// then all text instances in relative order, then remaining image-kind
// instances. Non-aside sections keep emission order untouched.
func (r *renderer) orderBlocks(g sectionGroup) []flow.BlockInstance {
	if !r.isAside(g.sectionType) {
		return g.blocks
	}
	var texts, rest []flow.BlockInstance
	for _, b := range g.blocks {
		if b.IsText() {
			texts = append(texts, b)
		} else {
			rest = append(rest, b)
		}
	}
	if len(rest) == 0 {
		return g.blocks
	}
	out := make([]flow.BlockInstance, 0, len(g.blocks))
	out = append(out, rest[0])
	out = append(out, texts...)
	out = append(out, rest[1:]...)
	return out
}

func (r *renderer) renderSection(buf *bytes.Buffer, g sectionGroup, bp catalog.Breakpoint, masterText string, images ImageSource) {
	fmt.Fprintf(buf, "  <section class=\"af-section af-%s\" data-instance=%q%s>\n",
		html.EscapeString(g.sectionType), g.key, r.geometryStyle(g.sectionType, bp))

	for _, b := range r.orderBlocks(g) {
		switch {
		case b.IsText():
			renderText(buf, b, masterText)
		case b.Kind == catalog.KindCarousel:
			r.renderCarousel(buf, b, images)
		case b.Kind == catalog.KindQuote:
			r.renderQuote(buf, b, masterText, images)
		default:
			r.renderImage(buf, b, b.ImageSlotID, images)
		}
	}

	buf.WriteString("  </section>\n")
}

// geometryStyle emits column/gap hints as CSS custom properties when the
// catalog is available.
func (r *renderer) geometryStyle(sectionType string, bp catalog.Breakpoint) string {
	if r.catalog == nil {
		return ""
	}
	def, ok := r.catalog[sectionType]
	if !ok {
		return ""
	}
	geo, ok := def.Geometry[bp]
	if !ok {
		return ""
	}
	var parts []string
	if geo.Columns > 0 {
		parts = append(parts, fmt.Sprintf("--af-columns:%d", geo.Columns))
	}
	if geo.GapPx > 0 {
		parts = append(parts, fmt.Sprintf("--af-gap:%.0fpx", geo.GapPx))
	}
	if px, ok := geo.Height.FixedPx(); ok {
		parts = append(parts, fmt.Sprintf("--af-height:%.0fpx", px))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" style=%q", strings.Join(parts, ";"))
}

// renderText recovers the excerpt and splits it into paragraphs on
// blank-line boundaries. Excerpt edges carry the whitespace between flow
// cuts, so the whole excerpt is trimmed before splitting.
func renderText(buf *bytes.Buffer, b flow.BlockInstance, masterText string) {
	fmt.Fprintf(buf, "    <div class=\"af-text\" data-block=%q>\n", b.BlockID)
	for _, para := range splitParagraphs(strings.TrimSpace(b.Text(masterText))) {
		fmt.Fprintf(buf, "      <p>%s</p>\n", html.EscapeString(para))
	}
	buf.WriteString("    </div>\n")
}

func (r *renderer) renderImage(buf *bytes.Buffer, b flow.BlockInstance, slotID string, images ImageSource) {
	ref, ok := images.Image(b.SectionKey, slotID)
	if !ok {
		renderPlaceholder(buf, b.SectionKey, slotID)
		return
	}
	fmt.Fprintf(buf, "    <figure class=\"af-image\" data-slot=%q>\n", slotID)
	fmt.Fprintf(buf, "      <img src=%q alt=%q>\n", r.resolve(ref.StoragePath), ref.Alt)
	if ref.Caption != "" {
		fmt.Fprintf(buf, "      <figcaption>%s</figcaption>\n", html.EscapeString(ref.Caption))
	}
	buf.WriteString("    </figure>\n")
}

func (r *renderer) renderQuote(buf *bytes.Buffer, b flow.BlockInstance, masterText string, images ImageSource) {
	// Quote blocks carry a decorative slot; the quoted words themselves are
	// authored as image-manifest captions, not taken from the flow.
	ref, ok := images.Image(b.SectionKey, b.ImageSlotID)
	fmt.Fprintf(buf, "    <blockquote class=\"af-quote\" data-slot=%q>\n", b.ImageSlotID)
	if ok && ref.Caption != "" {
		fmt.Fprintf(buf, "      <p>%s</p>\n", html.EscapeString(ref.Caption))
	} else {
		renderPlaceholder(buf, b.SectionKey, b.ImageSlotID)
	}
	buf.WriteString("    </blockquote>\n")
}

func (r *renderer) renderCarousel(buf *bytes.Buffer, b flow.BlockInstance, images ImageSource) {
	fmt.Fprintf(buf, "    <div class=\"af-carousel\" data-block=%q>\n", b.BlockID)
	for _, slot := range b.ImageSlotIDs {
		r.renderImage(buf, b, slot, images)
	}
	buf.WriteString("    </div>\n")
}

// renderPlaceholder makes an authoring gap visible: the slot id and section
// instance key are rendered in place of the missing content, never a blank.
func renderPlaceholder(buf *bytes.Buffer, sectionKey, slotID string) {
	fmt.Fprintf(buf, "    <figure class=\"af-placeholder\" data-slot=%q data-instance=%q>\n", slotID, sectionKey)
	fmt.Fprintf(buf, "      <span>missing image: slot %s (%s)</span>\n",
		html.EscapeString(slotID), html.EscapeString(sectionKey))
	buf.WriteString("    </figure>\n")
}

// splitParagraphs splits text on blank-line boundaries. Lines containing
// only whitespace count as blank. Returns at least one paragraph for
// non-empty input.
func splitParagraphs(text string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

func writeDocumentHead(buf *bytes.Buffer, title string) {
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("<meta charset=\"utf-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(buf, "<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("<style>" + baseCSS + "</style>\n")
	buf.WriteString("</head>\n<body>\n")
}

// baseCSS keeps preview output readable without shipping the production
// stylesheet. The custom properties emitted by geometryStyle drive the
// column layout.
const baseCSS = `
  body { margin: 0; font-family: Georgia, serif; color: #222; }
  .af-article { max-width: 960px; margin: 0 auto; padding: 24px; }
  .af-section { margin: 32px 0; display: grid; grid-template-columns: repeat(var(--af-columns, 1), 1fr); gap: var(--af-gap, 16px); }
  .af-text p { line-height: 1.6; }
  .af-image img { width: 100%; display: block; }
  .af-image figcaption { font-size: 0.85em; color: #666; }
  .af-quote { font-size: 1.4em; font-style: italic; border-left: 4px solid #ccc; padding-left: 16px; }
  .af-carousel { display: flex; gap: 8px; overflow-x: auto; grid-column: 1 / -1; }
  .af-placeholder { border: 2px dashed #c66; background: #fee; padding: 24px; text-align: center; color: #933; }`
