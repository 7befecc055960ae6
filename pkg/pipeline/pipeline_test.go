package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/syednoorhussain2025/articleflow/pkg/cache"
	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/measure"
)

func testText() string {
	return strings.TrimRight(strings.Repeat("word ", 400), " ")
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Text: "some text"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Breakpoint != string(catalog.BreakpointDesktop) {
		t.Errorf("breakpoint = %q, want desktop default", opts.Breakpoint)
	}
	if opts.Catalog == nil {
		t.Error("catalog default not applied")
	}
	if opts.Template.ID != "longform" {
		t.Errorf("template = %q, want builtin longform", opts.Template.ID)
	}
	if opts.MeasurerKey != MeasurerNone {
		t.Errorf("measurer key = %q, want %q", opts.MeasurerKey, MeasurerNone)
	}
	if opts.Images == nil || opts.Logger == nil {
		t.Error("images/logger defaults not applied")
	}
}

func TestOptionsRejectsBadBreakpoint(t *testing.T) {
	opts := Options{Breakpoint: "ultrawide"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("accepted unknown breakpoint")
	}
}

func TestOptionsStrictValidation(t *testing.T) {
	opts := Options{
		Strict: true,
		Template: catalog.TemplateDef{
			ID:       "broken",
			Sections: []catalog.SectionRef{{Type: "nope", Version: 1}},
		},
	}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("strict mode accepted an unresolvable template")
	}
}

func TestExecutePipeline(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{Text: testText()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID empty")
	}
	if result.LayoutHash == "" {
		t.Error("LayoutHash empty")
	}
	if result.Stats.BlockCount != len(result.Layout.Flow) {
		t.Errorf("BlockCount = %d, want %d", result.Stats.BlockCount, len(result.Layout.Flow))
	}
	if len(result.Snapshot) == 0 {
		t.Error("empty snapshot")
	}
	if !strings.Contains(string(result.Snapshot), `data-template="longform"`) {
		t.Error("snapshot missing template marker")
	}
}

func TestLayoutCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()
	ctx := context.Background()
	opts := Options{Text: testText()}

	_, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatalf("first layout: %v", err)
	}
	if hit {
		t.Error("first computation reported a cache hit")
	}

	inst, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, Options{Text: testText()})
	if err != nil {
		t.Fatalf("second layout: %v", err)
	}
	if !hit {
		t.Error("identical inputs missed the cache")
	}
	if len(inst.Flow) == 0 {
		t.Error("cached layout empty")
	}

	// A different breakpoint is a different artifact.
	_, hit, err = runner.ComputeLayoutWithCacheInfo(ctx, Options{
		Text:       testText(),
		Breakpoint: string(catalog.BreakpointMobile),
	})
	if err != nil {
		t.Fatalf("mobile layout: %v", err)
	}
	if hit {
		t.Error("different breakpoint hit the desktop entry")
	}
}

func TestMeasurerKeySeparatesCacheEntries(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()
	ctx := context.Background()

	if _, _, err := runner.ComputeLayoutWithCacheInfo(ctx, Options{Text: testText()}); err != nil {
		t.Fatalf("layout without oracle: %v", err)
	}

	_, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, Options{
		Text:        testText(),
		Measurer:    &measure.Static{Always: true},
		MeasurerKey: "static:always",
	})
	if err != nil {
		t.Fatalf("layout with oracle: %v", err)
	}
	if hit {
		t.Error("oracle-backed run reused the oracle-free cache entry")
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()
	ctx := context.Background()

	if _, _, err := runner.ComputeLayoutWithCacheInfo(ctx, Options{Text: testText()}); err != nil {
		t.Fatalf("first layout: %v", err)
	}

	_, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, Options{Text: testText(), Refresh: true})
	if err != nil {
		t.Fatalf("refresh layout: %v", err)
	}
	if hit {
		t.Error("refresh served from cache")
	}
}

func TestSnapshotCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()
	ctx := context.Background()

	first, err := runner.Execute(ctx, Options{Text: testText()})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.CacheInfo.SnapshotHit {
		t.Error("first run hit the snapshot cache")
	}

	second, err := runner.Execute(ctx, Options{Text: testText()})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.SnapshotHit {
		t.Errorf("second run cache info = %+v, want both hits", second.CacheInfo)
	}
	if string(first.Snapshot) != string(second.Snapshot) {
		t.Error("cached snapshot differs from computed snapshot")
	}

	// Render options participate in the snapshot key.
	third, err := runner.Execute(ctx, Options{Text: testText(), Document: true, Title: "T"})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.CacheInfo.SnapshotHit {
		t.Error("document render hit the fragment cache entry")
	}
}

func TestValidateBreakpoints(t *testing.T) {
	if err := ValidateBreakpoints(nil); err == nil {
		t.Error("accepted empty breakpoint list")
	}
	if err := ValidateBreakpoints([]string{"mobile", "desktop"}); err != nil {
		t.Errorf("rejected valid breakpoints: %v", err)
	}
	if err := ValidateBreakpoints([]string{"mobile", "huge"}); err == nil {
		t.Error("accepted unknown breakpoint")
	}
}
