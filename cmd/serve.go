package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/splitcmp-cli/internal/analysis"
	"github.com/KaramelBytes/splitcmp-cli/internal/charts"
	"github.com/KaramelBytes/splitcmp-cli/internal/server"
)

var (
	srvFlags dataFlags
	srvAddr  string
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve the analysis of a dataset over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, req, err := srvFlags.load(cmd, args[0], nil)
		if err != nil {
			return err
		}
		c, err := settings()
		if err != nil {
			return err
		}
		addr := c.ListenAddr
		if srvAddr != "" {
			addr = srvAddr
		}
		if !debug {
			gin.SetMode(gin.ReleaseMode)
		}
		s := server.New(ds, server.Options{
			Request: req,
			Sweep:   analysis.SweepRange{Min: c.SweepMin, Max: c.SweepMax, Step: c.SweepStep},
			Charts:  charts.Options{KDEPoints: c.KDEPoints, HistogramBins: c.HistogramBins},
		}, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Printf("✓ Serving %s on http://%s (Ctrl+C to stop)\n", ds.Name, addr)
		return s.Run(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	srvFlags.register(serveCmd, true)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default from config, 127.0.0.1:8050)")
}
