package catalog

// Builtin returns the catalog of section shapes the article publisher ships
// with. The geometry values mirror the production stylesheet; only the fixed
// heights matter to the layout engine (they become default fit-check caps).
func Builtin() Catalog {
	return Catalog{
		"hero": {
			Type:    "hero",
			Version: 1,
			Geometry: map[Breakpoint]Geometry{
				BreakpointMobile:  {Columns: 1, Height: Fixed(320)},
				BreakpointTablet:  {Columns: 1, Height: Fixed(420)},
				BreakpointDesktop: {Columns: 1, Height: Fixed(520)},
			},
			Blocks: []BlockDef{
				{ID: "heroImage", Kind: KindImage, ImageSlotID: "hero"},
				{ID: "standfirst", Kind: KindText, AcceptsTextFlow: true,
					Policy: TextPolicy{TargetWords: 60, MaxHeightPx: 140}},
			},
		},
		"twoColumn": {
			Type:    "twoColumn",
			Version: 2,
			Geometry: map[Breakpoint]Geometry{
				BreakpointMobile:  {Columns: 1, GapPx: 16},
				BreakpointTablet:  {Columns: 2, GapPx: 24, Height: Fixed(480)},
				BreakpointDesktop: {Columns: 2, GapPx: 32, Height: Fixed(560)},
			},
			Blocks: []BlockDef{
				{ID: "columnImage", Kind: KindImage, ImageSlotID: "side"},
				{ID: "columnText", Kind: KindText, AcceptsTextFlow: true,
					Policy: TextPolicy{TargetWords: 180}},
			},
		},
		"fullTextBand": {
			Type:    "fullTextBand",
			Version: 1,
			Geometry: map[Breakpoint]Geometry{
				BreakpointMobile:  {Columns: 1},
				BreakpointTablet:  {Columns: 1},
				BreakpointDesktop: {Columns: 1},
			},
			Blocks: []BlockDef{
				{ID: "band", Kind: KindText, AcceptsTextFlow: true,
					Policy: TextPolicy{TargetWords: 220}},
			},
		},
		"pullQuote": {
			Type:    "pullQuote",
			Version: 1,
			Geometry: map[Breakpoint]Geometry{
				BreakpointMobile:  {Columns: 1},
				BreakpointTablet:  {Columns: 1},
				BreakpointDesktop: {Columns: 1},
			},
			Blocks: []BlockDef{
				{ID: "quote", Kind: KindQuote, ImageSlotID: "quoteMark"},
				// Decorative caption line, not part of the text flow.
				{ID: "attribution", Kind: KindText, AcceptsTextFlow: false},
			},
		},
		"carousel": {
			Type:    "carousel",
			Version: 1,
			Geometry: map[Breakpoint]Geometry{
				BreakpointMobile:  {Columns: 1, Height: Fixed(260)},
				BreakpointTablet:  {Columns: 1, Height: Fixed(380)},
				BreakpointDesktop: {Columns: 1, Height: Fixed(440)},
			},
			Blocks: []BlockDef{
				{ID: "gallery", Kind: KindCarousel,
					ImageSlotIDs: []string{"gallery-1", "gallery-2", "gallery-3"}},
			},
		},
		AsideSectionType: {
			Type:    AsideSectionType,
			Version: 1,
			Role:    RoleAside,
			Geometry: map[Breakpoint]Geometry{
				BreakpointMobile:  {Columns: 1, GapPx: 12},
				BreakpointTablet:  {Columns: 2, GapPx: 20},
				BreakpointDesktop: {Columns: 2, GapPx: 24},
			},
			Blocks: []BlockDef{
				{ID: "asideLead", Kind: KindText, AcceptsTextFlow: true,
					Policy: TextPolicy{TargetWords: 90, MaxHeightPx: 240}},
				{ID: "asideFigure", Kind: KindImage, ImageSlotID: "aside"},
				{ID: "asideTail", Kind: KindText, AcceptsTextFlow: true,
					Policy: TextPolicy{TargetWords: 90, MaxHeightPx: 240}},
			},
		},
	}
}

// BuiltinTemplate returns the default long-form article template: hero,
// alternating prose and imagery, one aside, a closing band.
func BuiltinTemplate() TemplateDef {
	return TemplateDef{
		ID:      "longform",
		Version: 1,
		Sections: []SectionRef{
			{Type: "hero", Version: 1},
			{Type: "twoColumn", Version: 2},
			{Type: "fullTextBand", Version: 1},
			{Type: "pullQuote", Version: 1},
			{Type: AsideSectionType, Version: 1},
			{Type: "carousel", Version: 1},
			{Type: "twoColumn", Version: 2},
			{Type: "fullTextBand", Version: 1},
		},
	}
}
