// Package flow implements the flow layout engine: the pure algorithm that
// decides which character ranges of the master text and which image slots
// land in which block of which section instance.
//
// # Overview
//
// [Compute] walks a template in order with a single text cursor. For every
// resolvable section reference it assigns a fresh section instance key
// ("<sectionTypeId>#<n>", counter local to the call) and visits the
// section's blocks in declaration order:
//
//   - image / quote / carousel blocks emit content-less instances carrying
//     their slot ids; content is resolved later by the snapshot renderer
//   - text blocks that accept the flow consume an excerpt of the remaining
//     text bounded by the block's word-count window, snapped back to the
//     last complete sentence, and optionally trimmed once when the
//     fit-check oracle reports overflow
//   - text blocks that do not accept the flow are skipped entirely
//
// Unknown section references are skipped silently; callers wanting strict
// validation use catalog.Validate beforehand. The walk stops early when the
// template truncates on text end, and any unconsumed tail is surfaced as
// leftover only under the "stop" overflow strategy.
//
// # Purity
//
// Given a deterministic measurer, Compute is a pure function: no I/O, no
// shared state, no error paths. The occurrence counters live on the call
// stack, so repeated invocations - including across breakpoints - can never
// corrupt each other's numbering. The resulting [Instance] is a fully
// formed value; recompute it from scratch whenever any input changes.
//
// # Overflow correction is single-shot
//
// When the oracle reports overflow, the engine removes the excerpt's last
// sentence and accepts the shortened excerpt without asking again. This
// bounds measurement cost at one query per capped block, at the price of
// occasional residual overflow when the trimmed excerpt still exceeds the
// cap.
package flow
