package handler

import (
	"errors"
	"net/http"

	"github.com/dushixiang/folio/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IngestHandler 报告导入处理器
type IngestHandler struct {
	logger        *zap.Logger
	ingestService *service.IngestService
}

// NewIngestHandler 创建导入处理器
func NewIngestHandler(
	logger *zap.Logger,
	ingestService *service.IngestService,
) *IngestHandler {
	return &IngestHandler{
		logger:        logger,
		ingestService: ingestService,
	}
}

// GetReport 获取最近一次扫描报告
// GET /api/ingest/report
func (h *IngestHandler) GetReport(c echo.Context) error {
	ctx := c.Request().Context()

	report, err := h.ingestService.LatestReport(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"message": "no scan has run yet",
			})
		}
		h.logger.Error("failed to load ingest report", zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// GetSummaries 直接读取目录里每份报告的关键数字
// GET /api/ingest/summaries
func (h *IngestHandler) GetSummaries(c echo.Context) error {
	ctx := c.Request().Context()

	summaries, err := h.ingestService.Summaries(ctx)
	if err != nil {
		h.logger.Error("failed to summarize statements", zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}

// Rescan 手动触发一次目录扫描
// POST /api/ingest/rescan
func (h *IngestHandler) Rescan(c echo.Context) error {
	ctx := c.Request().Context()

	report, err := h.ingestService.ScanAll(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// RegisterRoutes 注册路由
func (h *IngestHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/ingest/report", h.GetReport)
	g.GET("/ingest/summaries", h.GetSummaries)
	g.POST("/ingest/rescan", h.Rescan)
}
