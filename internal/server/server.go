package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"divergence-bot/internal/report"
)

// Server exposes the latest backtest results over HTTP. It is a thin
// read-only surface: results are produced offline by cmd/backtest and
// loaded from the result file on demand.
type Server struct {
	logger     *zap.Logger
	resultPath string
	metrics    *Metrics
	engine     *gin.Engine
}

func New(logger *zap.Logger, resultPath string) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	s := &Server{
		logger:     logger,
		resultPath: resultPath,
		metrics:    NewMetrics(reg),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	v1.GET("/results", s.handleResults)
	v1.GET("/results/trades", s.handleTrades)
	v1.POST("/login", s.handleLogin)

	s.engine = r
	return s
}

func (s *Server) Run(addr string) error {
	s.logger.Info("results service listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// Handler returns the underlying HTTP handler (tests).
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) handleHealth(c *gin.Context) {
	s.count("/health", http.StatusOK)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleResults(c *gin.Context) {
	res, err := report.LoadJSON(s.resultPath)
	if err != nil {
		s.metrics.ResultReadErrs.Inc()
		s.logger.Warn("no backtest result available", zap.Error(err))
		s.count("/api/v1/results", http.StatusNotFound)
		c.JSON(http.StatusNotFound, gin.H{"error": "no backtest result available"})
		return
	}
	s.metrics.ResultReads.Inc()
	s.count("/api/v1/results", http.StatusOK)
	c.JSON(http.StatusOK, res.Summary)
}

func (s *Server) handleTrades(c *gin.Context) {
	res, err := report.LoadJSON(s.resultPath)
	if err != nil {
		s.metrics.ResultReadErrs.Inc()
		s.count("/api/v1/results/trades", http.StatusNotFound)
		c.JSON(http.StatusNotFound, gin.H{"error": "no backtest result available"})
		return
	}
	s.metrics.ResultReads.Inc()
	s.count("/api/v1/results/trades", http.StatusOK)
	c.JSON(http.StatusOK, gin.H{"job_id": res.Summary.JobID, "trades": res.Trades})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleLogin is a stub: it validates the payload shape and returns a
// placeholder token. There is no account system behind it.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.count("/api/v1/login", http.StatusBadRequest)
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}
	s.count("/api/v1/login", http.StatusOK)
	c.JSON(http.StatusOK, gin.H{"token": "stub", "email": req.Email})
}

func (s *Server) count(route string, status int) {
	s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
