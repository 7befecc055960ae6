// Package inspect visualizes templates and layout instances as Graphviz
// diagrams. Authoring teams use these to review how a template's sections
// and blocks are wired before pointing real articles at it, and to see
// which blocks a computed layout actually filled.
package inspect

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/flow"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes geometry and policy details in node labels.
	// When false, only section types and block ids are shown.
	Detailed bool

	// Breakpoint selects which geometry variant to show in detailed
	// labels. Defaults to desktop.
	Breakpoint catalog.Breakpoint
}

// TemplateDOT converts a template (resolved against a catalog) to Graphviz
// DOT format. Each section reference becomes a cluster containing its block
// nodes; unknown section references are rendered as dashed placeholder
// nodes, mirroring how the engine skips them.
func TemplateDOT(tpl catalog.TemplateDef, cat catalog.Catalog, opts Options) string {
	bp := opts.Breakpoint
	if bp == "" {
		bp = catalog.BreakpointDesktop
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	counters := make(map[string]int)
	var prevTail string
	for _, ref := range tpl.Sections {
		counters[ref.Type]++
		key := catalog.InstanceKey(ref.Type, counters[ref.Type])

		def, ok := cat.Lookup(ref)
		if !ok {
			fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n",
				key, key+"\n(not in catalog)")
			if prevTail != "" {
				fmt.Fprintf(&buf, "  %q -> %q;\n", prevTail, key)
			}
			prevTail = key
			continue
		}

		fmt.Fprintf(&buf, "  subgraph \"cluster_%s\" {\n", key)
		fmt.Fprintf(&buf, "    label=%q;\n", sectionLabel(key, def, bp, opts.Detailed))
		var head, tail string
		for _, blk := range def.Blocks {
			id := key + "/" + blk.ID
			fmt.Fprintf(&buf, "    %q [%s];\n", id, strings.Join(blockAttrs(blk, opts.Detailed), ", "))
			if head == "" {
				head = id
			}
			if tail != "" {
				fmt.Fprintf(&buf, "    %q -> %q;\n", tail, id)
			}
			tail = id
		}
		buf.WriteString("  }\n")

		if prevTail != "" && head != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", prevTail, head)
		}
		if tail != "" {
			prevTail = tail
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// InstanceDOT converts a computed layout instance to DOT. The text cursor's
// path through the template is drawn as edges between text blocks, so a
// reviewer can see exactly where each excerpt landed.
func InstanceDOT(inst flow.Instance, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var prev string
	var prevText string
	for _, b := range inst.Flow {
		id := b.SectionKey + "/" + b.BlockID
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, instanceLabel(b, opts.Detailed))
		if prev != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", prev, id)
		}
		prev = id
		if b.IsText() {
			if prevText != "" {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey, constraint=false];\n", prevText, id)
			}
			prevText = id
		}
	}

	if inst.Leftover != nil {
		fmt.Fprintf(&buf, "  leftover [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n",
			fmt.Sprintf("leftover\nfrom char %d", inst.Leftover.StartChar))
		if prevText != "" {
			fmt.Fprintf(&buf, "  %q -> leftover [style=dashed, color=grey, constraint=false];\n", prevText)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func sectionLabel(key string, def catalog.SectionDef, bp catalog.Breakpoint, detailed bool) string {
	if !detailed {
		return key
	}
	parts := []string{key, fmt.Sprintf("v%d", def.Version)}
	if def.IsAside() {
		parts = append(parts, "role: aside")
	}
	if geo, ok := def.Geometry[bp]; ok {
		parts = append(parts, fmt.Sprintf("%s: %d col, gap %.0fpx", bp, geo.Columns, geo.GapPx))
		if px, fixed := geo.Height.FixedPx(); fixed {
			parts = append(parts, fmt.Sprintf("height: %.0fpx", px))
		}
	}
	return strings.Join(parts, "\n")
}

func blockAttrs(blk catalog.BlockDef, detailed bool) []string {
	label := blk.ID
	if detailed {
		parts := []string{blk.ID, string(blk.Kind)}
		if blk.AcceptsTextFlow && blk.Policy.TargetWords > 0 {
			minWords, maxWords, _ := blk.Policy.Window()
			parts = append(parts, fmt.Sprintf("words %d..%d", minWords, maxWords))
		}
		label = strings.Join(parts, "\n")
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if blk.Kind != catalog.KindText {
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	return attrs
}

func instanceLabel(b flow.BlockInstance, detailed bool) string {
	id := b.SectionKey + "/" + b.BlockID
	if !detailed {
		return id
	}
	switch {
	case b.IsText():
		return fmt.Sprintf("%s\n[%d, %d)", id, b.StartChar, b.EndChar)
	case len(b.ImageSlotIDs) > 0:
		return fmt.Sprintf("%s\nslots: %s", id, strings.Join(b.ImageSlotIDs, ", "))
	case b.ImageSlotID != "":
		return fmt.Sprintf("%s\nslot: %s", id, b.ImageSlotID)
	}
	return id
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
