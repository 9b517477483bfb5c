package commands

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/cli/output"
	"github.com/dia3-labs/brief/internal/ingest"
	"github.com/dia3-labs/brief/pkg/schema"
)

// IngestOptions holds options for the ingest command.
type IngestOptions struct {
	Output  string // Explicit output path
	Profile string // Profile to stub sections for
	Title   string // Title override
	Stdout  bool   // Print instead of writing
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand() *cobra.Command {
	opts := &IngestOptions{}
	cmd := &cobra.Command{
		Use:   "ingest <file|url|->",
		Short: "Convert an HTML document into a report skeleton",
		Long: `Convert HTML into a briefing report skeleton: the body becomes
Markdown, the title is sniffed from <title> or the first <h1>, and
frontmatter is filled in. With --profile, missing required sections are
stubbed so the skeleton lints structurally complete after editing.

The source is a local file, an http(s) URL, or - for stdin.`,
		Example: `  # Convert a saved page into the reports directory
  brief ingest briefing.html

  # Fetch and convert, stubbing strategic sections
  brief ingest https://example.org/assessment --profile strategic-positioning

  # Pipe through
  cat page.html | brief ingest - --stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "out", "", "Output file path (default: reports dir, slug of title)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "Profile to stub required sections for")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Override the sniffed title")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Print the skeleton instead of writing a file")

	return cmd
}

func runIngest(cmd *cobra.Command, source string, opts *IngestOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	src, err := readSource(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	convOpts := ingest.Options{Title: opts.Title}
	if opts.Profile != "" {
		profile, ok := schema.Get(opts.Profile)
		if !ok {
			return fmt.Errorf("unknown profile %q (known: %s)", opts.Profile,
				strings.Join(schema.Names(), ", "))
		}
		convOpts.Profile = profile
	}

	res, err := ingest.Convert(src, convOpts)
	if err != nil {
		return err
	}

	if opts.Stdout {
		r.Println(string(res.Markdown))
		return nil
	}

	path := opts.Output
	if path == "" {
		path = filepath.Join(cfg.ReportsDir, res.Slug+".md")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, res.Markdown, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.GenerateOutput{Scenario: res.Slug, Path: path})
	}
	r.Success(fmt.Sprintf("Ingested %q to %s", res.Title, path))
	return nil
}

// readSource loads HTML from a file, an http(s) URL, or stdin ("-").
func readSource(stdin io.Reader, source string) ([]byte, error) {
	switch {
	case source == "-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetchPage(source)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return data, nil
	}
}

func fetchPage(pageURL string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "brief-ingest/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
