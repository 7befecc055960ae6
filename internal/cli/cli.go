// Package cli implements the articleflow command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/syednoorhussain2025/articleflow/pkg/buildinfo"
	"github.com/syednoorhussain2025/articleflow/pkg/cache"
	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/measure/textmetric"
	"github.com/syednoorhussain2025/articleflow/pkg/pipeline"
	"github.com/syednoorhussain2025/articleflow/pkg/snapshot"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "articleflow"

	// defaultPreviewAddr is the default listen address for the preview server.
	defaultPreviewAddr = "localhost:8321"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "articleflow",
		Short:        "Articleflow flows long-form articles into section templates",
		Long:         `Articleflow is a CLI tool for flowing a single master text through an ordered template of visual sections, producing deterministic layout instances and static article snapshots.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool, redisAddr string) (*pipeline.Runner, error) {
	cch, err := newCache(noCache, redisAddr)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, newKeyer(redisAddr), c.Logger), nil
}

// newKeyer picks the cache key scheme. A shared Redis serves more than one
// application, so its keys are scoped under the articleflow namespace; the
// per-user file cache keeps plain keys.
func newKeyer(redisAddr string) cache.Keyer {
	if redisAddr == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, appName+":")
}

func newCache(noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/articleflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Shared Input Loading
// =============================================================================

// inputFlags are the flags shared by every command that runs the engine.
type inputFlags struct {
	template   string // template/catalog TOML authoring file
	breakpoint string
	images     string // image manifest TOML
	font       string // TTF/OTF for the headless fit-check oracle
	strict     bool
	noCache    bool
	redisAddr  string
}

// register wires the shared flags onto cmd.
func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "template TOML file (default: built-in longform template)")
	cmd.Flags().StringVarP(&f.breakpoint, "breakpoint", "b", string(pipeline.DefaultBreakpoint), "breakpoint: mobile, tablet, desktop")
	cmd.Flags().StringVar(&f.images, "images", "", "image manifest TOML file")
	cmd.Flags().StringVar(&f.font, "font", "", "font file for height fit checks (disabled when empty)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "validate template against catalog before layout")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redisAddr, "redis", "", "redis address for a shared cache (host:port)")
}

// buildOptions assembles pipeline options from the article file and flags.
func (c *CLI) buildOptions(articlePath string, f *inputFlags) (pipeline.Options, error) {
	text, err := os.ReadFile(articlePath)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Text:       string(text),
		Breakpoint: f.breakpoint,
		Strict:     f.strict,
		Logger:     c.Logger,
	}

	if f.template != "" {
		tpl, cat, err := catalog.LoadFile(f.template)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Template = tpl
		opts.Catalog = cat
	}

	if f.images != "" {
		manifest, err := catalog.LoadImageManifest(f.images)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Images = snapshot.FromManifest(manifest)
	}

	if f.font != "" {
		ruler, err := textmetric.New(textmetric.Config{FontPath: f.font})
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Measurer = ruler
		opts.MeasurerKey = "textmetric:" + f.font
	}

	return opts, nil
}
