package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/browse"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port    int
	NoWatch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Browse the briefing corpus over HTTP",
		Long: `Start a local server over the corpus: an HTML index and rendered
reports for browsing, plus JSON endpoints under /api for reports,
diagnostics, and profiles.

By default the reports directory is watched and the corpus is re-linted
and re-indexed on changes. Stop with Ctrl-C.`,
		Example: `  # Serve on the default port
  brief serve

  # Custom port, no file watching
  brief serve --port 9000 --no-watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Port to listen on")
	cmd.Flags().BoolVar(&opts.NoWatch, "no-watch", false, "Disable file watching")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	serveCfg := cmdCtx.Cfg.GetServeConfig()
	port := serveCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := serveCfg.Watch && !opts.NoWatch

	if _, err := cmdCtx.Engine.Discover(); err != nil {
		return err
	}

	srv := browse.NewServer(browse.Config{
		Engine: cmdCtx.Engine,
		Port:   port,
		Watch:  watch,
		Logger: cmdCtx.Logger,
	})

	cmdCtx.Renderer.Printf("Serving corpus at http://localhost:%d\n", port)
	if err := srv.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("serve failed: %w", err)
	}
	return nil
}
