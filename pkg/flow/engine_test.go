package flow

import (
	"bytes"
	"strings"
	"testing"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/measure"
)

// testWords builds a master text of n whitespace-separated words with no
// sentence terminators, so sentence snapping is a no-op.
func testWords(n int) string {
	return strings.TrimRight(strings.Repeat("word ", n), " ")
}

// testCatalog builds a minimal catalog for engine tests.
func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		"prose": {
			Type:    "prose",
			Version: 1,
			Geometry: map[catalog.Breakpoint]catalog.Geometry{
				catalog.BreakpointDesktop: {Columns: 1},
			},
			Blocks: []catalog.BlockDef{
				{ID: "body", Kind: catalog.KindText, AcceptsTextFlow: true,
					Policy: catalog.TextPolicy{TargetWords: 20}},
			},
		},
		"figure": {
			Type:    "figure",
			Version: 1,
			Geometry: map[catalog.Breakpoint]catalog.Geometry{
				catalog.BreakpointDesktop: {Columns: 1, Height: catalog.Fixed(320)},
			},
			Blocks: []catalog.BlockDef{
				{ID: "main", Kind: catalog.KindImage, ImageSlotID: "figure"},
			},
		},
		"gallery": {
			Type:    "gallery",
			Version: 1,
			Geometry: map[catalog.Breakpoint]catalog.Geometry{
				catalog.BreakpointDesktop: {Columns: 1, Height: catalog.Fixed(440)},
			},
			Blocks: []catalog.BlockDef{
				{ID: "shots", Kind: catalog.KindCarousel,
					ImageSlotIDs: []string{"g-1", "g-2"}},
			},
		},
	}
}

func testTemplate(types ...string) catalog.TemplateDef {
	tpl := catalog.TemplateDef{ID: "test", Version: 1}
	for _, typ := range types {
		tpl.Sections = append(tpl.Sections, catalog.SectionRef{Type: typ, Version: 1})
	}
	return tpl
}

func textBlocks(inst Instance) []BlockInstance {
	var out []BlockInstance
	for _, b := range inst.Flow {
		if b.IsText() {
			out = append(out, b)
		}
	}
	return out
}

func TestComputeSequentialRanges(t *testing.T) {
	text := testWords(100)
	in := Input{
		Template:   testTemplate("prose", "prose", "prose"),
		Catalog:    testCatalog(),
		Text:       text,
		Breakpoint: catalog.BreakpointDesktop,
	}

	inst := Compute(in, nil)

	texts := textBlocks(inst)
	if len(texts) != 3 {
		t.Fatalf("text instances = %d, want 3", len(texts))
	}

	cursor := 0
	for i, b := range texts {
		if b.StartChar != cursor {
			t.Errorf("block %d: StartChar = %d, want %d", i, b.StartChar, cursor)
		}
		if b.EndChar <= b.StartChar {
			t.Errorf("block %d: empty or inverted range [%d, %d)", i, b.StartChar, b.EndChar)
		}
		if got := countTokens(b.Text(text)); got != 20 {
			t.Errorf("block %d: word count = %d, want 20", i, got)
		}
		wantKey := catalog.InstanceKey("prose", i+1)
		if b.SectionKey != wantKey {
			t.Errorf("block %d: SectionKey = %q, want %q", i, b.SectionKey, wantKey)
		}
		cursor = b.EndChar
	}
}

func TestComputeDeterministic(t *testing.T) {
	in := Input{
		Template:   testTemplate("prose", "figure", "prose", "gallery"),
		Catalog:    testCatalog(),
		Text:       testWords(80),
		Breakpoint: catalog.BreakpointDesktop,
	}

	a, err := Marshal(Compute(in, nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := Marshal(Compute(in, nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical inputs produced different artifacts")
	}
}

func TestComputeShortTextSaturates(t *testing.T) {
	text := testWords(5) // below the window minimum of 15
	in := Input{
		Template:   testTemplate("prose"),
		Catalog:    testCatalog(),
		Text:       text,
		Breakpoint: catalog.BreakpointDesktop,
	}

	inst := Compute(in, nil)

	texts := textBlocks(inst)
	if len(texts) != 1 {
		t.Fatalf("text instances = %d, want 1", len(texts))
	}
	if texts[0].EndChar != len(text) {
		t.Errorf("EndChar = %d, want %d (entire remainder)", texts[0].EndChar, len(text))
	}
	if inst.Leftover != nil {
		t.Error("Leftover set for fully consumed text")
	}
}

func TestComputeUnknownSectionSkipped(t *testing.T) {
	in := Input{
		Template:   testTemplate("vanished", "prose"),
		Catalog:    testCatalog(),
		Text:       testWords(30),
		Breakpoint: catalog.BreakpointDesktop,
	}

	inst := Compute(in, nil)

	if len(inst.Flow) != 1 {
		t.Fatalf("flow length = %d, want 1", len(inst.Flow))
	}
	if inst.Flow[0].SectionKey != "prose#1" {
		t.Errorf("SectionKey = %q, want prose#1 (unknown types must not advance counters)", inst.Flow[0].SectionKey)
	}
}

func TestComputeRepeatedSectionKeys(t *testing.T) {
	in := Input{
		Template:   testTemplate("figure", "prose", "figure"),
		Catalog:    testCatalog(),
		Text:       testWords(40),
		Breakpoint: catalog.BreakpointDesktop,
	}

	inst := Compute(in, nil)

	var keys []string
	for _, b := range inst.Flow {
		if b.SectionType == "figure" {
			keys = append(keys, b.SectionKey)
		}
	}
	want := []string{"figure#1", "figure#2"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("figure keys = %v, want %v", keys, want)
	}
}

func TestComputeTruncateOnTextEnd(t *testing.T) {
	text := testWords(10) // consumed entirely by the first prose block
	cat := testCatalog()

	t.Run("Default", func(t *testing.T) {
		in := Input{
			Template:   testTemplate("prose", "gallery"),
			Catalog:    cat,
			Text:       text,
			Breakpoint: catalog.BreakpointDesktop,
		}
		inst := Compute(in, nil)
		for _, b := range inst.Flow {
			if b.SectionType == "gallery" {
				t.Error("gallery emitted after text ended with truncation enabled")
			}
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		tpl := testTemplate("prose", "gallery")
		truncate := false
		tpl.TruncateOnTextEnd = &truncate
		in := Input{
			Template:   tpl,
			Catalog:    cat,
			Text:       text,
			Breakpoint: catalog.BreakpointDesktop,
		}
		inst := Compute(in, nil)
		found := false
		for _, b := range inst.Flow {
			if b.SectionType == "gallery" {
				found = true
				if len(b.ImageSlotIDs) != 2 {
					t.Errorf("carousel slots = %v, want [g-1 g-2]", b.ImageSlotIDs)
				}
			}
		}
		if !found {
			t.Error("gallery missing with truncation disabled")
		}
	})
}

func TestComputeOverflowStrategies(t *testing.T) {
	text := testWords(100) // one prose block consumes 20 words
	cat := testCatalog()

	t.Run("ContinueDropsTail", func(t *testing.T) {
		in := Input{
			Template:   testTemplate("prose"),
			Catalog:    cat,
			Text:       text,
			Breakpoint: catalog.BreakpointDesktop,
		}
		inst := Compute(in, nil)
		if inst.Leftover != nil {
			t.Errorf("Leftover = %+v, want nil under continue", inst.Leftover)
		}
	})

	t.Run("StopMarksLeftover", func(t *testing.T) {
		tpl := testTemplate("prose")
		tpl.OverflowStrategy = catalog.OverflowStop
		in := Input{
			Template:   tpl,
			Catalog:    cat,
			Text:       text,
			Breakpoint: catalog.BreakpointDesktop,
		}
		inst := Compute(in, nil)
		if inst.Leftover == nil {
			t.Fatal("Leftover nil under stop with unconsumed text")
		}
		texts := textBlocks(inst)
		if inst.Leftover.StartChar != texts[len(texts)-1].EndChar {
			t.Errorf("Leftover.StartChar = %d, want %d (last text end)",
				inst.Leftover.StartChar, texts[len(texts)-1].EndChar)
		}
	})
}

func TestComputeSentenceSnap(t *testing.T) {
	// Five tokens end mid-flow after "epsilon."; the final terminator of the
	// provisional slice has no following whitespace inside it, so the snap
	// settles on the previous boundary.
	text := "Alpha beta gamma. Delta epsilon. Zeta eta theta iota kappa."
	cat := catalog.Catalog{
		"prose": {
			Type:    "prose",
			Version: 1,
			Blocks: []catalog.BlockDef{
				{ID: "body", Kind: catalog.KindText, AcceptsTextFlow: true,
					Policy: catalog.TextPolicy{TargetWords: 5, MinWords: 5, MaxWords: 5}},
			},
		},
	}
	in := Input{
		Template:   testTemplate("prose"),
		Catalog:    cat,
		Text:       text,
		Breakpoint: catalog.BreakpointDesktop,
	}

	inst := Compute(in, nil)

	texts := textBlocks(inst)
	if len(texts) == 0 {
		t.Fatal("no text instances")
	}
	if got, want := texts[0].Text(text), "Alpha beta gamma."; got != want {
		t.Errorf("excerpt = %q, want %q", got, want)
	}
}

func TestComputeFitCheckSingleShot(t *testing.T) {
	// Seven tokens reach into the third sentence; the snap settles on
	// "A one. B two." which is what the oracle must see.
	text := "A one. B two. C three words here and more"
	cat := catalog.Catalog{
		"capped": {
			Type:    "capped",
			Version: 1,
			Blocks: []catalog.BlockDef{
				{ID: "body", Kind: catalog.KindText, AcceptsTextFlow: true,
					Policy: catalog.TextPolicy{TargetWords: 7, MinWords: 7, MaxWords: 7, MaxHeightPx: 200}},
			},
		},
	}
	in := Input{
		Template:   testTemplate("capped"),
		Catalog:    cat,
		Text:       text,
		Breakpoint: catalog.BreakpointDesktop,
	}

	m := &measure.Static{Script: []bool{true}}
	inst := Compute(in, m)

	if len(m.Calls) != 1 {
		t.Fatalf("oracle calls = %d, want exactly 1 (trim is accepted unchecked)", len(m.Calls))
	}
	call := m.Calls[0]
	if call.MaxHeightPx != 200 {
		t.Errorf("cap = %v, want 200 (policy cap wins)", call.MaxHeightPx)
	}
	if call.Signature != "capped_body_desktop" {
		t.Errorf("signature = %q, want capped_body_desktop", call.Signature)
	}
	if call.Text != "A one. B two." {
		t.Errorf("measured text = %q, want %q", call.Text, "A one. B two.")
	}
	texts := textBlocks(inst)
	if len(texts) == 0 {
		t.Fatal("no text instances")
	}
	if got, want := texts[0].Text(text), "A one."; got != want {
		t.Errorf("trimmed excerpt = %q, want %q", got, want)
	}
}

func TestComputeFitCheckUsesGeometryHeight(t *testing.T) {
	cat := catalog.Catalog{
		"fixed": {
			Type:    "fixed",
			Version: 1,
			Geometry: map[catalog.Breakpoint]catalog.Geometry{
				catalog.BreakpointDesktop: {Columns: 1, Height: catalog.Fixed(480)},
			},
			Blocks: []catalog.BlockDef{
				{ID: "body", Kind: catalog.KindText, AcceptsTextFlow: true,
					Policy: catalog.TextPolicy{TargetWords: 10}},
			},
		},
	}
	in := Input{
		Template:   testTemplate("fixed"),
		Catalog:    cat,
		Text:       testWords(30),
		Breakpoint: catalog.BreakpointDesktop,
	}

	m := &measure.Static{}
	Compute(in, m)

	if len(m.Calls) != 1 {
		t.Fatalf("oracle calls = %d, want 1", len(m.Calls))
	}
	if m.Calls[0].MaxHeightPx != 480 {
		t.Errorf("cap = %v, want 480 (section fixed height)", m.Calls[0].MaxHeightPx)
	}
}

func TestComputeNoCapSkipsFitCheck(t *testing.T) {
	in := Input{
		Template:   testTemplate("prose"),
		Catalog:    testCatalog(), // prose has auto geometry and no policy cap
		Text:       testWords(50),
		Breakpoint: catalog.BreakpointDesktop,
	}

	m := &measure.Static{Always: true}
	inst := Compute(in, m)

	if len(m.Calls) != 0 {
		t.Errorf("oracle calls = %d, want 0 without a cap", len(m.Calls))
	}
	if len(textBlocks(inst)) != 1 {
		t.Errorf("text instances = %d, want 1", len(textBlocks(inst)))
	}
}

func TestComputeWhitespaceOnlyText(t *testing.T) {
	in := Input{
		Template:   testTemplate("prose", "figure"),
		Catalog:    testCatalog(),
		Text:       "  \n\t  ",
		Breakpoint: catalog.BreakpointDesktop,
	}

	inst := Compute(in, nil)

	if got := len(textBlocks(inst)); got != 0 {
		t.Errorf("text instances = %d, want 0 for whitespace-only text", got)
	}
}

func TestStyleSignature(t *testing.T) {
	got := StyleSignature("two col", "body.main", catalog.BreakpointDesktop)
	if got != "two_col_body_main_desktop" {
		t.Errorf("StyleSignature = %q, want two_col_body_main_desktop", got)
	}
}
