package inspect

import (
	"strings"
	"testing"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/flow"
)

func TestTemplateDOT(t *testing.T) {
	dot := TemplateDOT(catalog.BuiltinTemplate(), catalog.Builtin(), Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("missing digraph header")
	}
	for _, want := range []string{
		`subgraph "cluster_hero#1"`,
		`subgraph "cluster_twoColumn#1"`,
		`subgraph "cluster_twoColumn#2"`,
		`"hero#1/heroImage"`,
		`"hero#1/standfirst"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}

func TestTemplateDOTUnknownSection(t *testing.T) {
	tpl := catalog.TemplateDef{
		ID:      "partial",
		Version: 1,
		Sections: []catalog.SectionRef{
			{Type: "hero", Version: 1},
			{Type: "retired", Version: 1},
		},
	}

	dot := TemplateDOT(tpl, catalog.Builtin(), Options{})

	if !strings.Contains(dot, "(not in catalog)") {
		t.Error("unknown section reference not marked")
	}
}

func TestTemplateDOTDetailedLabels(t *testing.T) {
	dot := TemplateDOT(catalog.BuiltinTemplate(), catalog.Builtin(), Options{Detailed: true})

	if !strings.Contains(dot, "height: 520px") {
		t.Error("detailed labels missing fixed height at desktop")
	}
	if !strings.Contains(dot, "role: aside") {
		t.Error("detailed labels missing aside role")
	}
	if !strings.Contains(dot, "words 135..225") { // twoColumn target 180
		t.Errorf("detailed labels missing word window:\n%s", dot)
	}
}

func TestInstanceDOT(t *testing.T) {
	inst := flow.Instance{
		TemplateID: "longform",
		Breakpoint: catalog.BreakpointDesktop,
		Flow: []flow.BlockInstance{
			{SectionType: "hero", SectionKey: "hero#1", BlockID: "standfirst",
				Kind: catalog.KindText, StartChar: 0, EndChar: 120},
			{SectionType: "twoColumn", SectionKey: "twoColumn#1", BlockID: "columnImage",
				Kind: catalog.KindImage, ImageSlotID: "side"},
			{SectionType: "twoColumn", SectionKey: "twoColumn#1", BlockID: "columnText",
				Kind: catalog.KindText, StartChar: 120, EndChar: 480},
		},
		Leftover: &flow.Leftover{StartChar: 480},
	}

	dot := InstanceDOT(inst, Options{Detailed: true})

	for _, want := range []string{
		`"hero#1/standfirst"`,
		`"twoColumn#1/columnImage"`,
		"[0, 120)",
		"slot: side",
		"leftover",
		"from char 480",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	// The cursor path links consecutive text blocks.
	if !strings.Contains(dot, `"hero#1/standfirst" -> "twoColumn#1/columnText" [style=dashed`) {
		t.Error("text cursor edge missing")
	}
}
