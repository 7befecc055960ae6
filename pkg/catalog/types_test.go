package catalog

import "testing"

func TestParseBreakpoint(t *testing.T) {
	for _, valid := range []string{"mobile", "tablet", "desktop"} {
		if _, err := ParseBreakpoint(valid); err != nil {
			t.Errorf("ParseBreakpoint(%q) = %v, want nil", valid, err)
		}
	}
	if _, err := ParseBreakpoint("widescreen"); err == nil {
		t.Error("ParseBreakpoint accepted unknown breakpoint")
	}
}

func TestTextPolicyWindow(t *testing.T) {
	tests := []struct {
		name     string
		policy   TextPolicy
		wantMin  int
		wantMax  int
		wantTake int
	}{
		{
			name:     "DefaultsFromTarget",
			policy:   TextPolicy{TargetWords: 200},
			wantMin:  150,
			wantMax:  250,
			wantTake: 200,
		},
		{
			name:     "RoundedDefaults",
			policy:   TextPolicy{TargetWords: 90},
			wantMin:  68, // round(67.5)
			wantMax:  113, // round(112.5)
			wantTake: 90,
		},
		{
			name:     "ExplicitBounds",
			policy:   TextPolicy{TargetWords: 100, MinWords: 40, MaxWords: 60},
			wantMin:  40,
			wantMax:  60,
			wantTake: 60, // target clamped down to max
		},
		{
			name:     "TargetBelowMin",
			policy:   TextPolicy{TargetWords: 10, MinWords: 30, MaxWords: 50},
			wantMin:  30,
			wantMax:  50,
			wantTake: 30, // target clamped up to min
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax, gotTake := tt.policy.Window()
			if gotMin != tt.wantMin || gotMax != tt.wantMax || gotTake != tt.wantTake {
				t.Errorf("Window() = (%d, %d, %d), want (%d, %d, %d)",
					gotMin, gotMax, gotTake, tt.wantMin, tt.wantMax, tt.wantTake)
			}
		})
	}
}

func TestTextPolicySnap(t *testing.T) {
	off := false
	on := true
	if !(TextPolicy{}).Snap() {
		t.Error("Snap() = false for nil SnapToSentence, want true (default)")
	}
	if (TextPolicy{SnapToSentence: &off}).Snap() {
		t.Error("Snap() = true with explicit false")
	}
	if !(TextPolicy{SnapToSentence: &on}).Snap() {
		t.Error("Snap() = false with explicit true")
	}
}

func TestHeightPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy HeightPolicy
		wantPx float64
		wantOK bool
	}{
		{"Fixed", Fixed(520), 520, true},
		{"FixedFractional", HeightPolicy("fixed:240.5"), 240.5, true},
		{"Auto", HeightAuto, 0, false},
		{"Empty", HeightPolicy(""), 0, false},
		{"Malformed", HeightPolicy("fixed:tall"), 0, false},
		{"NonPositive", HeightPolicy("fixed:0"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, ok := tt.policy.FixedPx()
			if px != tt.wantPx || ok != tt.wantOK {
				t.Errorf("FixedPx() = (%v, %v), want (%v, %v)", px, ok, tt.wantPx, tt.wantOK)
			}
		})
	}
}

func TestSectionDefIsAside(t *testing.T) {
	tests := []struct {
		name string
		def  SectionDef
		want bool
	}{
		{"ExplicitRole", SectionDef{Type: "sidebar", Role: RoleAside}, true},
		{"WellKnownType", SectionDef{Type: AsideSectionType}, true},
		{"RoleOverridesType", SectionDef{Type: AsideSectionType, Role: "band"}, false},
		{"Plain", SectionDef{Type: "hero"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.def.IsAside(); got != tt.want {
				t.Errorf("IsAside() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstanceKey(t *testing.T) {
	if got := InstanceKey("twoColumn", 2); got != "twoColumn#2" {
		t.Errorf("InstanceKey = %q, want twoColumn#2", got)
	}
}

func TestValidate(t *testing.T) {
	cat := Builtin()

	tests := []struct {
		name    string
		tpl     TemplateDef
		wantErr bool
	}{
		{
			name:    "BuiltinTemplate",
			tpl:     BuiltinTemplate(),
			wantErr: false,
		},
		{
			name:    "EmptyID",
			tpl:     TemplateDef{Sections: []SectionRef{{Type: "hero"}}},
			wantErr: true,
		},
		{
			name:    "NoSections",
			tpl:     TemplateDef{ID: "empty"},
			wantErr: true,
		},
		{
			name: "UnknownSection",
			tpl: TemplateDef{ID: "bad", Sections: []SectionRef{
				{Type: "doesNotExist", Version: 1},
			}},
			wantErr: true,
		},
		{
			name: "BadOverflowStrategy",
			tpl: TemplateDef{ID: "bad", OverflowStrategy: "wrap",
				Sections: []SectionRef{{Type: "hero", Version: 1}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tpl, cat)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsZeroTargetWords(t *testing.T) {
	cat := Catalog{
		"broken": {
			Type:    "broken",
			Version: 1,
			Blocks: []BlockDef{
				{ID: "body", Kind: KindText, AcceptsTextFlow: true},
			},
		},
	}
	tpl := TemplateDef{ID: "t", Sections: []SectionRef{{Type: "broken", Version: 1}}}
	if err := Validate(tpl, cat); err == nil {
		t.Error("Validate accepted a text flow block without target_words")
	}
}
