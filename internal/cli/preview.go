package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	afErrors "github.com/syednoorhussain2025/articleflow/pkg/errors"
	"github.com/syednoorhussain2025/articleflow/pkg/flow"
	"github.com/syednoorhussain2025/articleflow/pkg/pipeline"
)

// previewCommand creates the preview command: a local HTTP server that
// renders the article on demand, one route per breakpoint.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags inputFlags
		addr  string
		title string
	)

	cmd := &cobra.Command{
		Use:   "preview [article.txt]",
		Short: "Serve live article previews over HTTP",
		Long: `Serve live article previews over HTTP.

The preview server renders the article on demand for any breakpoint:

  GET /                     redirects to /desktop
  GET /{breakpoint}         full HTML document for that breakpoint
  GET /layout/{breakpoint}  the layout instance as JSON

Inputs are re-read from disk on every request, so edits to the article,
template, or image manifest show up on refresh. Layouts and snapshots are
cached by input hash; unchanged inputs serve from cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], &flags, addr, title)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultPreviewAddr, "listen address")
	cmd.Flags().StringVar(&title, "title", "", "document title")

	return cmd
}

// runPreview starts the preview server and blocks until ctx is cancelled.
func (c *CLI) runPreview(ctx context.Context, input string, flags *inputFlags, addr, title string) error {
	runner, err := c.newRunner(flags.noCache, flags.redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: chiLogger{c.Logger}}))
	r.Use(c.requestLogger)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/"+string(pipeline.DefaultBreakpoint), http.StatusFound)
	})
	r.Get("/{breakpoint}", func(w http.ResponseWriter, req *http.Request) {
		opts, err := c.previewOptions(input, flags, chi.URLParam(req, "breakpoint"), title)
		if err != nil {
			httpError(w, err)
			return
		}
		p := newProgress(loggerFromContext(req.Context()))
		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			httpError(w, err)
			return
		}
		p.done(fmt.Sprintf("Rendered %s snapshot", opts.Breakpoint))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(result.Snapshot)
	})
	r.Get("/layout/{breakpoint}", func(w http.ResponseWriter, req *http.Request) {
		opts, err := c.previewOptions(input, flags, chi.URLParam(req, "breakpoint"), title)
		if err != nil {
			httpError(w, err)
			return
		}
		p := newProgress(loggerFromContext(req.Context()))
		inst, err := runner.ComputeLayout(req.Context(), opts)
		if err != nil {
			httpError(w, err)
			return
		}
		p.done(fmt.Sprintf("Computed %s layout", opts.Breakpoint))
		data, err := flow.Marshal(inst)
		if err != nil {
			httpError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	printSuccess("Preview server running")
	printDetail("Address: http://%s", addr)
	for _, bp := range catalog.Breakpoints {
		printDetail("  http://%s/%s", addr, bp)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger attaches a request-scoped logger to the context so handlers
// can log through loggerFromContext without threading a logger argument.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		l := c.Logger.With("request", middleware.GetReqID(req.Context()))
		next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), l)))
	})
}

// previewOptions rebuilds pipeline options from disk for one request.
func (c *CLI) previewOptions(input string, flags *inputFlags, breakpoint, title string) (pipeline.Options, error) {
	opts, err := c.buildOptions(input, flags)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.Breakpoint = breakpoint
	opts.Document = true
	opts.Title = title
	return opts, nil
}

// httpError writes an error response, mapping authoring errors to 400.
func httpError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch afErrors.GetCode(err) {
	case afErrors.ErrCodeInvalidInput, afErrors.ErrCodeInvalidTemplate,
		afErrors.ErrCodeInvalidSection, afErrors.ErrCodeInvalidPolicy,
		afErrors.ErrCodeInvalidBreakpoint:
		status = http.StatusBadRequest
	case afErrors.ErrCodeNotFound, afErrors.ErrCodeSectionNotFound,
		afErrors.ErrCodeTemplateNotFound, afErrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	http.Error(w, afErrors.UserMessage(err), status)
}

// chiLogger adapts the charmbracelet logger to chi's middleware interface.
type chiLogger struct {
	logger interface{ Info(msg any, kv ...any) }
}

func (l chiLogger) Print(v ...any) {
	l.logger.Info(fmt.Sprint(v...))
}
