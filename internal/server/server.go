// Package server exposes the split analysis of one dataset over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KaramelBytes/splitcmp-cli/internal/analysis"
	"github.com/KaramelBytes/splitcmp-cli/internal/charts"
	"github.com/KaramelBytes/splitcmp-cli/internal/dataset"
	"github.com/KaramelBytes/splitcmp-cli/internal/split"
)

// Options configures a Server. Request supplies the columns and the
// percentile used when a request does not name one.
type Options struct {
	Request analysis.Request
	Sweep   analysis.SweepRange
	Charts  charts.Options
}

// Server serves analyses of a dataset that is loaded once and never mutated.
type Server struct {
	router   *gin.Engine
	ds       *dataset.Dataset
	analyzer *analysis.Analyzer
	opt      Options
	log      *zap.Logger
}

// New builds the gin engine and its routes.
func New(ds *dataset.Dataset, opt Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opt.Sweep == (analysis.SweepRange{}) {
		opt.Sweep = analysis.DefaultSweep
	}
	s := &Server{
		router:   gin.New(),
		ds:       ds,
		analyzer: analysis.NewAnalyzer(log),
		opt:      opt,
		log:      log,
	}
	s.router.Use(gin.Recovery(), RequestID(), AccessLog(log))
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := s.router.Group("/api")
	api.GET("/dataset", s.handleDataset)
	api.GET("/analysis", s.handleAnalysis)
	api.GET("/charts", s.handleCharts)
	api.GET("/sweep", s.handleSweep)
	api.GET("/report", s.handleReport)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr), zap.String("dataset", s.ds.Name))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) handleDataset(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    s.ds.Name,
		"columns": s.ds.Columns,
		"rows":    s.ds.Len(),
		"request": s.opt.Request,
	})
}

func (s *Server) handleAnalysis(c *gin.Context) {
	res, ok := s.analyze(c)
	if !ok {
		return
	}
	_, withRows := c.GetQuery("rows")
	b, err := res.JSON(withRows)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func (s *Server) handleCharts(c *gin.Context) {
	res, ok := s.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"percentile": analysis.Float(res.Request.Percentile),
		"panels":     charts.Build(res, s.opt.Charts),
	})
}

func (s *Server) handleReport(c *gin.Context) {
	res, ok := s.analyze(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(res.Markdown()))
}

type sweepGroup struct {
	Label       string         `json:"label"`
	Size        int            `json:"size"`
	Statistic   analysis.Float `json:"statistic"`
	PValue      analysis.Float `json:"pvalue"`
	Significant bool           `json:"significant"`
}

type sweepPoint struct {
	Percentile analysis.Float `json:"percentile"`
	Cutoff     int            `json:"cutoff"`
	Groups     []sweepGroup   `json:"groups"`
}

func (s *Server) handleSweep(c *gin.Context) {
	results, err := s.analyzer.Sweep(s.ds, s.opt.Request, s.opt.Sweep)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	points := make([]sweepPoint, 0, len(results))
	for _, r := range results {
		pt := sweepPoint{Percentile: analysis.Float(r.Request.Percentile), Cutoff: r.Cutoff}
		for _, label := range r.Order {
			g := r.Groups[label]
			pt.Groups = append(pt.Groups, sweepGroup{
				Label:       label,
				Size:        g.Size(),
				Statistic:   analysis.Float(g.Statistic),
				PValue:      analysis.Float(g.PValue),
				Significant: g.Significant,
			})
		}
		points = append(points, pt)
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// analyze runs one pass at the requested percentile, writing the error
// response itself when it fails.
func (s *Server) analyze(c *gin.Context) (*analysis.Result, bool) {
	req := s.opt.Request
	if raw, ok := c.GetQuery("percentile"); ok {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid percentile %q", raw))
			return nil, false
		}
		req.Percentile = p
	}
	res, err := s.analyzer.Analyze(s.ds, req)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return nil, false
	}
	return res, true
}

func statusFor(err error) int {
	var mc *dataset.MissingColumnError
	var ie *split.InsufficientDataError
	if errors.As(err, &mc) || errors.As(err, &ie) || errors.Is(err, analysis.ErrSameColumn) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	s.log.Warn("request failed",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Int("status", status),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
