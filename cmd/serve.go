package cmd

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/langsearch/internal/metrics"
	"github.com/gaurav-prasanna/langsearch/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the LangSearch web page",
	Long: `Serve starts a single-page web UI: a query box, a Search button, the summary,
its sources, and (with --images) a grid of related images.

Routes:
  GET  /              the page
  POST /search        form submit
  GET  /api/search?q= JSON result
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addPipelineFlags(serveCmd.Flags())
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = flagAddr
	}
	if err := applyPipelineFlags(cmd.Flags(), cfg); err != nil {
		return err
	}

	if !strings.EqualFold(cfg.Log.Level, "debug") && !strings.EqualFold(cfg.Log.Level, "trace") {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	p, err := buildPipeline(cfg, log, m)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg.Server.Addr, p, m, log)
	if err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}
