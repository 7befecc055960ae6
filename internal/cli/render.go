package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/flow"
	"github.com/syednoorhussain2025/articleflow/pkg/pipeline"
)

// renderCommand creates the render command for generating article snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags    inputFlags
		output   string
		all      bool
		document bool
		title    string
		layout   string
	)

	cmd := &cobra.Command{
		Use:   "render [article.txt]",
		Short: "Render an article snapshot",
		Long: `Render an article snapshot.

The render command runs the full pipeline: it computes the layout instance
for the requested breakpoint and renders it to a static HTML fragment with
the article text flowed into the template's sections. With --document the
fragment is wrapped in a complete standalone page.

With --all, snapshots are generated for every breakpoint, one file each
(e.g. article_mobile.html, article_tablet.html, article_desktop.html).

With --layout, the layout stage is skipped: the instance is read from a
file previously written by the layout command and only the snapshot is
rendered. The article text must still be supplied, since the instance
references it by character range.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &flags, renderFlags{
				output:   output,
				all:      all,
				document: document,
				title:    title,
				layout:   layout,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single breakpoint) or base path (--all)")
	cmd.Flags().BoolVar(&all, "all", false, "render every breakpoint")
	cmd.Flags().BoolVar(&document, "document", false, "wrap the snapshot in a standalone HTML document")
	cmd.Flags().StringVar(&title, "title", "", "document title (implies --document)")
	cmd.Flags().StringVar(&layout, "layout", "", "layout instance JSON to render (skips the layout stage)")

	return cmd
}

type renderFlags struct {
	output   string
	all      bool
	document bool
	title    string
	layout   string
}

// runRender executes the pipeline for one or all breakpoints.
func (c *CLI) runRender(ctx context.Context, input string, flags *inputFlags, rf renderFlags) error {
	opts, err := c.buildOptions(input, flags)
	if err != nil {
		return fmt.Errorf("load inputs: %w", err)
	}
	opts.Document = rf.document || rf.title != ""
	opts.Title = rf.title

	runner, err := c.newRunner(flags.noCache, flags.redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if rf.layout != "" {
		if rf.all {
			return fmt.Errorf("--layout renders one precomputed breakpoint; it cannot be combined with --all")
		}
		inst, err := flow.ReadFile(rf.layout)
		if err != nil {
			return err
		}
		outputPath := rf.output
		if outputPath == "" {
			outputPath = basePath("", input) + ".html"
		}
		opts.Breakpoint = string(inst.Breakpoint)
		return c.renderFromLayout(ctx, runner, inst, opts, outputPath)
	}

	if !rf.all {
		outputPath := rf.output
		if outputPath == "" {
			outputPath = basePath("", input) + ".html"
		}
		return c.renderOne(ctx, runner, opts, outputPath)
	}

	base := basePath(rf.output, input)
	for _, bp := range catalog.Breakpoints {
		bpOpts := opts
		bpOpts.Breakpoint = string(bp)
		path := fmt.Sprintf("%s_%s.html", base, bp)
		if err := c.renderOne(ctx, runner, bpOpts, path); err != nil {
			return fmt.Errorf("%s: %w", bp, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

// renderOne runs the pipeline for a single breakpoint and writes the snapshot.
func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, outputPath string) error {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s snapshot...", opts.Breakpoint))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if err := os.WriteFile(outputPath, result.Snapshot, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Snapshot complete (%s)", opts.Breakpoint)
	printFile(outputPath)
	printStats(result.Stats.BlockCount, result.Stats.TextChars, result.CacheInfo.SnapshotHit)
	return nil
}

// renderFromLayout renders a snapshot from a precomputed layout instance.
func (c *CLI) renderFromLayout(ctx context.Context, runner *pipeline.Runner, inst flow.Instance, opts pipeline.Options, outputPath string) error {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s snapshot...", inst.Breakpoint))
	spinner.Start()

	html, hit, err := runner.RenderSnapshotWithCacheInfo(ctx, inst, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if err := os.WriteFile(outputPath, html, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Snapshot complete (%s)", inst.Breakpoint)
	printFile(outputPath)
	printStats(len(inst.Flow), len(opts.Text), hit)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input; an .html output
// path also has its extension stripped so --all can append per-breakpoint
// suffixes.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if strings.EqualFold(filepath.Ext(output), ".html") {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}
