package handler

import (
	"net/http"
	"time"

	"github.com/dushixiang/folio/internal/service"
	"github.com/dushixiang/folio/internal/xe"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// KpiHandler 组合指标与账户处理器
type KpiHandler struct {
	logger         *zap.Logger
	kpiService     *service.KpiService
	accountService *service.AccountService
}

// NewKpiHandler 创建指标处理器
func NewKpiHandler(
	logger *zap.Logger,
	kpiService *service.KpiService,
	accountService *service.AccountService,
) *KpiHandler {
	return &KpiHandler{
		logger:         logger,
		kpiService:     kpiService,
		accountService: accountService,
	}
}

// GetKpis 获取组合级指标
// GET /api/kpi
func (h *KpiHandler) GetKpis(c echo.Context) error {
	ctx := c.Request().Context()

	kpis, err := h.kpiService.ComputeKpis(ctx)
	if err != nil {
		h.logger.Error("failed to compute kpis", zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, kpis)
}

// GetNavSeries 获取组合净值曲线
// GET /api/kpi/nav-series
func (h *KpiHandler) GetNavSeries(c echo.Context) error {
	ctx := c.Request().Context()

	points, err := h.kpiService.NavSeries(ctx)
	if err != nil {
		h.logger.Error("failed to build nav series", zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, points)
}

// GetBridge 获取账户的净值桥
// GET /api/kpi/accounts/:id/bridge
func (h *KpiHandler) GetBridge(c echo.Context) error {
	ctx := c.Request().Context()
	accountID := c.Param("id")

	bridge, err := h.kpiService.Bridge(ctx, accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bridge)
}

// GetTwr 获取账户的时间加权收益率
// GET /api/kpi/accounts/:id/twr
func (h *KpiHandler) GetTwr(c echo.Context) error {
	ctx := c.Request().Context()
	accountID := c.Param("id")

	twr, err := h.kpiService.Twr(ctx, accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"account_id": accountID,
		"twr":        twr,
	})
}

// ListAccounts 获取账户列表
// GET /api/accounts
func (h *KpiHandler) ListAccounts(c echo.Context) error {
	ctx := c.Request().Context()

	accounts, err := h.accountService.ListAccounts(ctx)
	if err != nil {
		h.logger.Error("failed to list accounts", zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// ManualFlowRequest 手工补录现金流请求
type ManualFlowRequest struct {
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	Amount   float64 `json:"amount" validate:"required"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
	Note     string  `json:"note" validate:"max=255"`
}

// AddFlow 为账户手工补录一条现金流
// POST /api/accounts/:id/flows
func (h *KpiHandler) AddFlow(c echo.Context) error {
	ctx := c.Request().Context()
	accountID := c.Param("id")

	var req ManualFlowRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return xe.ErrInvalidParams
	}

	flow, err := h.accountService.AddManualFlow(ctx, accountID, date, req.Amount, req.Currency, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, flow)
}

// RegisterRoutes 注册路由
func (h *KpiHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/kpi", h.GetKpis)
	g.GET("/kpi/nav-series", h.GetNavSeries)
	g.GET("/kpi/accounts/:id/bridge", h.GetBridge)
	g.GET("/kpi/accounts/:id/twr", h.GetTwr)

	g.GET("/accounts", h.ListAccounts)
	g.POST("/accounts/:id/flows", h.AddFlow)
}
