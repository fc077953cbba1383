package service

import (
	"context"
	"sort"
	"time"

	"github.com/dushixiang/folio/internal/repo"
	"github.com/dushixiang/folio/internal/xe"
	"github.com/dushixiang/folio/pkg/finance"
	"github.com/go-orz/orz"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewKpiService 创建指标服务
func NewKpiService(db *gorm.DB, logger *zap.Logger) *KpiService {
	return &KpiService{
		logger:        logger,
		Service:       orz.NewService(db),
		accountRepo:   repo.NewAccountRepo(db),
		cashFlowRepo:  repo.NewCashFlowRepo(db),
		valuationRepo: repo.NewValuationRepo(db),
	}
}

// KpiService 基于已导入的估值和现金流计算组合指标。
// 所有计算都是读当前已提交的数据，和后台扫描互不阻塞。
type KpiService struct {
	logger *zap.Logger

	*orz.Service
	accountRepo   *repo.AccountRepo
	cashFlowRepo  *repo.CashFlowRepo
	valuationRepo *repo.ValuationRepo
}

// Kpis 组合级指标：各账户的最新估值与 XIRR，以及合并后的净值与 XIRR
type Kpis struct {
	Accounts        map[string]finance.AccountResult `json:"accounts"`
	ConsolidatedNav float64                          `json:"consolidated_nav"`
	ConsolidatedIrr *float64                         `json:"consolidated_irr"`
}

// NavPoint 组合净值曲线上的一个点
type NavPoint struct {
	Date    string  `json:"date"`
	Nav     float64 `json:"nav"`
	NetFlow float64 `json:"net_flow"`
}

// ComputeKpis 计算组合级指标。只统计至少有一条估值的账户，
// 无法计算的收益率返回 null 而不是错误。
func (s *KpiService) ComputeKpis(ctx context.Context) (*Kpis, error) {
	latest, err := s.valuationRepo.FindLatestPerAccount(ctx)
	if err != nil {
		return nil, err
	}

	names, err := s.accountNames(ctx)
	if err != nil {
		return nil, err
	}

	series := make(map[string]finance.AccountSeries, len(latest))
	for _, valuation := range latest {
		flows, err := s.cashFlowRepo.FindByAccountId(ctx, valuation.AccountID)
		if err != nil {
			return nil, err
		}
		accountFlows := make([]finance.Flow, 0, len(flows))
		for _, f := range flows {
			accountFlows = append(accountFlows, finance.Flow{Date: f.Date, Amount: f.Amount})
		}

		key := names[valuation.AccountID]
		if key == "" {
			key = valuation.AccountID
		}
		series[key] = finance.AccountSeries{
			Flows:     accountFlows,
			Valuation: finance.Point{Date: valuation.Date, Value: valuation.TotalValue},
		}
	}

	result := finance.Consolidate(series)
	return &Kpis{
		Accounts:        result.Accounts,
		ConsolidatedNav: result.Nav,
		ConsolidatedIrr: result.Irr,
	}, nil
}

// Bridge 计算账户从首次到最近一次估值之间的净值桥
func (s *KpiService) Bridge(ctx context.Context, accountID string) (*finance.Bridge, error) {
	valuations, err := s.valuationRepo.FindByAccountId(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(valuations) == 0 {
		return nil, xe.ErrAccountNotFound
	}

	first, last := valuations[0], valuations[len(valuations)-1]
	contributions, withdrawals, err := s.cashFlowRepo.SumByAccountIdBetween(ctx, accountID, first.Date, last.Date)
	if err != nil {
		return nil, err
	}

	bridge := finance.NavBridge(first.TotalValue, last.TotalValue, contributions, withdrawals)
	return &bridge, nil
}

// Twr 计算账户估值序列的时间加权收益率，数据不足时返回 null
func (s *KpiService) Twr(ctx context.Context, accountID string) (*float64, error) {
	valuations, err := s.valuationRepo.FindByAccountId(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(valuations) == 0 {
		return nil, xe.ErrAccountNotFound
	}

	points := make([]finance.Point, 0, len(valuations))
	for _, v := range valuations {
		points = append(points, finance.Point{Date: v.Date, Value: v.TotalValue})
	}

	flows, err := s.cashFlowRepo.FindByAccountId(ctx, accountID)
	if err != nil {
		return nil, err
	}
	financeFlows := make([]finance.Flow, 0, len(flows))
	for _, f := range flows {
		financeFlows = append(financeFlows, finance.Flow{Date: f.Date, Amount: f.Amount})
	}

	return finance.TimeWeightedReturn(points, financeFlows), nil
}

// NavSeries 组合净值曲线：在每个出现过估值或现金流的日期上，
// 把各账户截至该日的最新估值加总，并统计当日净流入
func (s *KpiService) NavSeries(ctx context.Context) ([]NavPoint, error) {
	valuations, err := s.valuationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	flows, err := s.cashFlowRepo.FindAllOrderByDate(ctx)
	if err != nil {
		return nil, err
	}

	dateSet := make(map[string]time.Time)
	for _, v := range valuations {
		dateSet[v.Date.Format(time.DateOnly)] = v.Date
	}
	for _, f := range flows {
		dateSet[f.Date.Format(time.DateOnly)] = f.Date
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]NavPoint, 0, len(dates))
	for _, d := range dates {
		day := dateSet[d]

		// 每个账户取截至该日的最新一条估值
		latestDate := make(map[string]time.Time)
		latestValue := make(map[string]float64)
		for _, v := range valuations {
			if v.Date.After(day) {
				continue
			}
			if prev, ok := latestDate[v.AccountID]; !ok || v.Date.After(prev) {
				latestDate[v.AccountID] = v.Date
				latestValue[v.AccountID] = v.TotalValue
			}
		}
		var nav float64
		for _, value := range latestValue {
			nav += value
		}

		var netFlow float64
		for _, f := range flows {
			if f.Date.Format(time.DateOnly) == d {
				netFlow += f.Amount
			}
		}

		points = append(points, NavPoint{Date: d, Nav: nav, NetFlow: netFlow})
	}
	return points, nil
}

// accountNames 账户 ID 到名称的映射
func (s *KpiService) accountNames(ctx context.Context) (map[string]string, error) {
	accounts, err := s.accountRepo.FindAllOrderByName(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(accounts))
	for _, account := range accounts {
		names[account.ID] = account.Name
	}
	return names, nil
}
