package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syednoorhussain2025/articleflow/pkg/flow"
)

// layoutCommand creates the layout command for computing layout instances.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [article.txt]",
		Short: "Compute a layout instance for one breakpoint",
		Long: `Compute a layout instance for one breakpoint.

The layout command flows the article's master text through the template's
sections and writes the resulting layout instance as JSON. The instance
references the master text by character ranges only; render it to markup
with the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], &flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")

	return cmd
}

// runLayout loads inputs, computes the layout, and writes the instance.
func (c *CLI) runLayout(ctx context.Context, input string, flags *inputFlags, output string) error {
	opts, err := c.buildOptions(input, flags)
	if err != nil {
		return fmt.Errorf("load inputs: %w", err)
	}

	runner, err := c.newRunner(flags.noCache, flags.redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Breakpoint))
	spinner.Start()

	inst, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := flow.WriteFile(inst, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(inst.Flow), len(opts.Text), cacheHit)
	if inst.Leftover != nil {
		printWarning("Text overflows the template: %d characters left over", len(opts.Text)-inst.Leftover.StartChar)
	}
	printNewline()
	printNextStep("Render", fmt.Sprintf("articleflow render %s --layout %s", input, outputPath))

	return nil
}
