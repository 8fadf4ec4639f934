package cmd

import (
	"github.com/spf13/pflag"

	"github.com/gaurav-prasanna/langsearch/internal/config"
)

// addPipelineFlags registers the flags shared by search and serve.
// Defaults shown here are informational; unset flags leave the config alone.
func addPipelineFlags(fs *pflag.FlagSet) {
	defaults := config.Defaults()
	fs.Bool("images", defaults.Pipeline.Images, "Also search for related images and show them in a grid")
	fs.Int("top", defaults.Pipeline.TopN, "Number of search results to summarize")
	fs.Int("max_chars", defaults.Pipeline.MaxChars, "Character budget per source")
	fs.Int("concurrency", defaults.Pipeline.Concurrency, "Sources fetched in parallel (1 = sequential)")
	fs.String("provider", defaults.Search.Provider, "Search provider: duckduckgo or searxng")
	fs.String("searxng_url", "", "SearXNG instance URL (with --provider searxng)")
	fs.String("model", defaults.Summarizer.Model, "Chat model used for the summary")
}

// applyPipelineFlags copies explicitly set flags over cfg.
func applyPipelineFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	var err error
	if fs.Changed("images") {
		if cfg.Pipeline.Images, err = fs.GetBool("images"); err != nil {
			return err
		}
	}
	if fs.Changed("top") {
		if cfg.Pipeline.TopN, err = fs.GetInt("top"); err != nil {
			return err
		}
	}
	if fs.Changed("max_chars") {
		if cfg.Pipeline.MaxChars, err = fs.GetInt("max_chars"); err != nil {
			return err
		}
	}
	if fs.Changed("concurrency") {
		if cfg.Pipeline.Concurrency, err = fs.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if fs.Changed("provider") {
		if cfg.Search.Provider, err = fs.GetString("provider"); err != nil {
			return err
		}
	}
	if fs.Changed("searxng_url") {
		if cfg.Search.SearXNGURL, err = fs.GetString("searxng_url"); err != nil {
			return err
		}
	}
	if fs.Changed("model") {
		if cfg.Summarizer.Model, err = fs.GetString("model"); err != nil {
			return err
		}
	}
	return config.Validate(cfg)
}
