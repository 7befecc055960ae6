package flow_test

import (
	"fmt"
	"strings"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/flow"
)

// ExampleCompute flows a three-sentence article through two prose sections.
// Sentence snapping keeps each excerpt on a sentence boundary.
func ExampleCompute() {
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
	tpl := catalog.TemplateDef{
		ID:      "example",
		Version: 1,
		Sections: []catalog.SectionRef{
			{Type: "prose", Version: 1},
			{Type: "prose", Version: 1},
		},
	}
	text := "Spring came late. The valley stayed grey. Then the rivers turned."

	inst := flow.Compute(flow.Input{
		Template:   tpl,
		Catalog:    cat,
		Text:       text,
		Breakpoint: catalog.BreakpointDesktop,
	}, nil)

	for _, b := range inst.Flow {
		fmt.Printf("%s/%s %q\n", b.SectionKey, b.BlockID, strings.TrimSpace(b.Text(text)))
	}
	// Output:
	// prose#1/body "Spring came late."
	// prose#2/body "The valley stayed grey."
}
