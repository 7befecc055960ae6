// Package measure defines the fit-check oracle used by the flow layout
// engine to detect text overflow.
//
// # Overview
//
// The engine never measures pixels itself. When a text block carries a
// height cap, the engine asks a [Measurer] whether a candidate excerpt would
// overflow that cap under a given style, and performs at most one corrective
// trim on a positive answer. The oracle is injected rather than reached
// globally so the engine stays a pure function of its explicit inputs.
//
// Implementations:
//   - [Static]: a deterministic stub for tests and non-interactive runs
//   - textmetric.Ruler: headless font-metrics measurement for server-side
//     snapshot pre-generation (subpackage textmetric)
//
// The live, DOM-backed implementation lives in the browser front end and is
// out of scope here; any implementation satisfying [Measurer] plugs in.
package measure

// Measurer answers whether text would overflow a height cap under a style.
//
// Implementations must be side-effect free from the caller's point of view
// and deterministic for fixed inputs in a fixed rendering environment.
// A non-positive maxHeightPx means "no cap": implementations must report
// no overflow unconditionally in that case.
//
// A Measurer is not safe for concurrent use by multiple logical layout
// computations unless its documentation says otherwise; the live
// implementations reuse one measurement state across calls.
type Measurer interface {
	Overflows(text, styleSignature string, maxHeightPx float64) bool
}

// SanitizeSignature restricts a style signature to letters, digits, '-' and
// '_', replacing anything else with '_'. Signatures become part of a
// stylesheet selector in the live implementation, so the engine sanitizes
// them before they cross the Measurer boundary.
func SanitizeSignature(sig string) string {
	out := []byte(sig)
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// Static is a scripted Measurer for tests. Answers are consumed in call
// order; when the script is exhausted (or empty) it falls back to Always.
// Calls records every query so tests can assert how often and with what
// inputs the engine consulted the oracle.
type Static struct {
	Script []bool
	Always bool
	Calls  []Call
}

// Call is one recorded Overflows query.
type Call struct {
	Text        string
	Signature   string
	MaxHeightPx float64
}

// Overflows implements Measurer. Per the contract, a non-positive cap never
// overflows, and such calls are not recorded or scripted.
func (s *Static) Overflows(text, styleSignature string, maxHeightPx float64) bool {
	if maxHeightPx <= 0 {
		return false
	}
	s.Calls = append(s.Calls, Call{Text: text, Signature: styleSignature, MaxHeightPx: maxHeightPx})
	if len(s.Script) > 0 {
		ans := s.Script[0]
		s.Script = s.Script[1:]
		return ans
	}
	return s.Always
}

var _ Measurer = (*Static)(nil)
