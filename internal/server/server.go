// Package server exposes the HTTP surface of the document service.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/gendoc/internal/config"
	documentdomain "github.com/smallbiznis/gendoc/internal/document/domain"
	generatordomain "github.com/smallbiznis/gendoc/internal/generator/domain"
	"github.com/smallbiznis/gendoc/internal/observability/logger"
	"github.com/smallbiznis/gendoc/internal/observability/metrics"
	"github.com/smallbiznis/gendoc/internal/reader"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params defines dependencies for the HTTP server.
type Params struct {
	fx.In
	Config    config.Config
	Metrics   *metrics.Metrics
	Documents documentdomain.Service
	Generator generatordomain.Service
}

// Handler groups the route handlers and their dependencies.
type Handler struct {
	documents documentdomain.Service
	generator generatordomain.Service
}

// NewEngine builds the gin engine with middleware and routes.
func NewEngine(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		logger.GinMiddleware(),
		metrics.GinMiddleware(p.Metrics),
	)

	h := &Handler{documents: p.Documents, generator: p.Generator}
	registerRoutes(engine, h)
	return engine
}

func registerRoutes(engine *gin.Engine, h *Handler) {
	engine.GET("/health", h.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/v1")
	{
		v1.GET("/documents", h.ListDocuments)
		v1.GET("/documents/:number", h.GetDocument)
		v1.GET("/stats", h.Stats)
		v1.POST("/documents/invoices", h.GenerateInvoices)
		v1.POST("/documents/payslips", h.GeneratePayslips)
	}
}

// Run starts the HTTP server under the fx lifecycle.
func Run(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListDocuments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.documents.List(c.Request.Context(), documentdomain.ListRequest{
		Type:   documentdomain.Type(c.Query("type")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetDocument(c *gin.Context) {
	doc, err := h.documents.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.documents.Stats(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type generateRequest struct {
	SourceFile  string       `json:"source_file"`
	Year        int          `json:"year"`
	Rows        []reader.Row `json:"rows" binding:"required"`
	WithExport  bool         `json:"with_export"`
	WithArchive bool         `json:"with_archive"`
}

func (h *Handler) GenerateInvoices(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	report, err := h.generator.GenerateInvoices(c.Request.Context(), generatordomain.InvoicesRequest{
		SourceFile:  req.SourceFile,
		Rows:        req.Rows,
		Year:        req.Year,
		WithExport:  req.WithExport,
		WithArchive: req.WithArchive,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) GeneratePayslips(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	report, err := h.generator.GeneratePayslips(c.Request.Context(), generatordomain.PayslipsRequest{
		SourceFile:  req.SourceFile,
		Rows:        req.Rows,
		Year:        req.Year,
		WithArchive: req.WithArchive,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Invoke(Run),
)
