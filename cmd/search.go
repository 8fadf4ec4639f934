// search command: runs one query through the pipeline (search, fetch,
// extract, summarize) and prints or writes the rendered result.

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/langsearch/core"
	"github.com/gaurav-prasanna/langsearch/core/output"
	"github.com/gaurav-prasanna/langsearch/core/render"
)

// Flag variables.
var (
	flagPDF       bool
	flagMarkdown  bool
	flagJSON      bool
	flagHTML      bool
	flagOutputDir string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the web and summarize the top results",
	Long: `Search runs a web search for the query, scrapes up to --max_chars characters of
paragraph text from each of the top --top results, and asks the model for a summary.

Without a format flag the summary and its sources are printed to stdout.

Examples:
  langsearch search capital of France
  langsearch search "rust vs go" --images --markdown --output_dir ./out
  langsearch search golang generics --json --provider searxng --searxng_url http://localhost:8888`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	addPipelineFlags(searchCmd.Flags())

	// Output format flags (mutually exclusive, all optional).
	searchCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Write a PDF file")
	searchCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Write a Markdown file")
	searchCmd.Flags().BoolVar(&flagJSON, "json", false, "Write a JSON file")
	searchCmd.Flags().BoolVar(&flagHTML, "html", false, "Write an HTML file")

	searchCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), core.EmptyQueryWarning)
		return core.ErrEmptyQuery
	}

	if err := validateFlags(); err != nil {
		return err
	}

	cfg, log, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := applyPipelineFlags(cmd.Flags(), cfg); err != nil {
		return err
	}

	p, err := buildPipeline(cfg, log, nil)
	if err != nil {
		return err
	}

	renderer := selectRenderer()
	var writer *output.Writer
	if renderer != nil {
		writer, err = output.New(flagOutputDir)
		if err != nil {
			return fmt.Errorf("initializing output writer: %w", err)
		}
	}

	return executeSearch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), p, query, renderer, writer)
}

// executeSearch runs query and emits the result. A nil renderer prints the
// plain-text rendering to stdout instead of writing a file.
func executeSearch(
	ctx context.Context,
	stdout, stderr io.Writer,
	runner core.Runner,
	query string,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	fmt.Fprintln(stderr, "Searching and summarizing...")

	result, err := runner.Run(ctx, query)
	if err != nil {
		return err
	}

	if renderer == nil {
		data, err := render.NewTextRenderer().Render(result)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		_, err = stdout.Write(data)
		return err
	}

	data, err := renderer.Render(result)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	path, err := writer.Write(query, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✓ Written: %s\n", path)
	return nil
}

// validateFlags checks that at most one output format is chosen.
func validateFlags() error {
	formatCount := 0
	for _, set := range []bool{flagPDF, flagMarkdown, flagJSON, flagHTML} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// selectRenderer creates the file Renderer chosen by flags, or nil for
// terminal output.
func selectRenderer() core.Renderer {
	switch {
	case flagMarkdown:
		return render.NewMarkdownRenderer()
	case flagJSON:
		return render.NewJSONRenderer()
	case flagPDF:
		return render.NewPDFRenderer()
	case flagHTML:
		return render.NewHTMLRenderer()
	default:
		return nil
	}
}
