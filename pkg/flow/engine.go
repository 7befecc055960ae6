package flow

import (
	"fmt"
	"strings"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/measure"
)

// Compute runs the flow layout algorithm. It never fails: malformed or
// missing pieces degrade to emitting nothing for the affected item, and the
// result is always a fully formed Instance. The measurer is optional; when
// nil (or when no height cap applies) the fit-check step is skipped and
// text assignment proceeds on word counts alone.
//
// Compute holds no state beyond the call: section occurrence counters are
// allocated here and die here, so invocations never influence each other.
func Compute(in Input, m measure.Measurer) Instance {
	inst := Instance{
		TemplateID:      in.Template.ID,
		TemplateVersion: in.Template.Version,
		Breakpoint:      in.Breakpoint,
		Flow:            []BlockInstance{},
	}

	counters := make(map[string]int)
	cursor := 0
	text := in.Text

	for _, ref := range in.Template.Sections {
		def, ok := in.Catalog.Lookup(ref)
		if !ok {
			// Tolerated gap: the entry is skipped entirely, cursor unchanged.
			continue
		}

		counters[def.Type]++
		key := catalog.InstanceKey(def.Type, counters[def.Type])

		for _, blk := range def.Blocks {
			switch blk.Kind {
			case catalog.KindImage, catalog.KindQuote:
				inst.Flow = append(inst.Flow, BlockInstance{
					SectionType: def.Type,
					SectionKey:  key,
					BlockID:     blk.ID,
					Kind:        blk.Kind,
					ImageSlotID: blk.ImageSlotID,
				})

			case catalog.KindCarousel:
				inst.Flow = append(inst.Flow, BlockInstance{
					SectionType:  def.Type,
					SectionKey:   key,
					BlockID:      blk.ID,
					Kind:         blk.Kind,
					ImageSlotIDs: blk.ImageSlotIDs,
				})

			case catalog.KindText:
				if !blk.AcceptsTextFlow || cursor >= len(text) {
					continue
				}
				end := planExcerpt(text, cursor, blk, &def, in.Breakpoint, m)
				if strings.TrimSpace(text[cursor:end]) == "" {
					// Empty excerpt contributes no instance, cursor stays.
					continue
				}
				inst.Flow = append(inst.Flow, BlockInstance{
					SectionType: def.Type,
					SectionKey:  key,
					BlockID:     blk.ID,
					Kind:        catalog.KindText,
					StartChar:   cursor,
					EndChar:     end,
				})
				cursor = end
			}
		}

		if in.Template.Truncate() && cursor >= len(text) {
			break
		}
	}

	if cursor < len(text) && in.Template.Overflow() == catalog.OverflowStop {
		inst.Leftover = &Leftover{StartChar: cursor}
	}

	return inst
}

// planExcerpt computes the end offset of the excerpt a text block consumes:
// word-count window, sentence snap, then at most one corrective trim when
// the measurer reports overflow against the effective height cap.
func planExcerpt(text string, cursor int, blk catalog.BlockDef, def *catalog.SectionDef, bp catalog.Breakpoint, m measure.Measurer) int {
	_, _, take := blk.Policy.Window()
	end := wordSliceEnd(text, cursor, take)

	if blk.Policy.Snap() {
		end = cursor + snapEnd(text[cursor:end])
	}

	if m == nil {
		return end
	}
	capPx := blk.Policy.MaxHeightPx
	if capPx <= 0 {
		capPx, _ = def.FixedHeightAt(bp)
	}
	if capPx <= 0 {
		// Environment degradation: no usable cap, fit check skipped.
		return end
	}

	sig := StyleSignature(def.Type, blk.ID, bp)
	if m.Overflows(text[cursor:end], sig, capPx) {
		// Single-shot correction: the shortened excerpt is accepted
		// without a second query.
		end = cursor + trimLastSentence(text[cursor:end])
	}
	return end
}

// StyleSignature derives the sanitized style signature for a text block at
// a breakpoint. The same derivation is used when registering styles with a
// headless measurer, so signatures line up on both sides of the oracle.
func StyleSignature(sectionType, blockID string, bp catalog.Breakpoint) string {
	return measure.SanitizeSignature(fmt.Sprintf("%s_%s_%s", sectionType, blockID, bp))
}
