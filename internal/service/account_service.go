package service

import (
	"context"
	"errors"
	"time"

	"github.com/dushixiang/folio/internal/models"
	"github.com/dushixiang/folio/internal/repo"
	"github.com/dushixiang/folio/internal/xe"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewAccountService 创建账户服务
func NewAccountService(db *gorm.DB, logger *zap.Logger) *AccountService {
	return &AccountService{
		logger:        logger,
		Service:       orz.NewService(db),
		accountRepo:   repo.NewAccountRepo(db),
		brokerRepo:    repo.NewBrokerRepo(db),
		cashFlowRepo:  repo.NewCashFlowRepo(db),
		valuationRepo: repo.NewValuationRepo(db),
	}
}

type AccountService struct {
	logger *zap.Logger

	*orz.Service
	accountRepo   *repo.AccountRepo
	brokerRepo    *repo.BrokerRepo
	cashFlowRepo  *repo.CashFlowRepo
	valuationRepo *repo.ValuationRepo
}

// AccountView 账户列表项
type AccountView struct {
	ID            string   `json:"id"`
	Broker        string   `json:"broker"`
	Name          string   `json:"name"`
	BaseCurrency  string   `json:"base_currency"`
	LatestDate    *string  `json:"latest_date"`
	LatestValue   *float64 `json:"latest_value"`
	CashFlowCount int      `json:"cash_flow_count"`
}

// ListAccounts 获取所有账户及其最新估值
func (s *AccountService) ListAccounts(ctx context.Context) ([]AccountView, error) {
	accounts, err := s.accountRepo.FindAllOrderByName(ctx)
	if err != nil {
		return nil, err
	}

	brokers, err := s.brokerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	brokerNames := make(map[string]string, len(brokers))
	for _, broker := range brokers {
		brokerNames[broker.ID] = broker.Name
	}

	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		view := AccountView{
			ID:           account.ID,
			Broker:       brokerNames[account.BrokerID],
			Name:         account.Name,
			BaseCurrency: account.BaseCurrency,
		}

		latest, err := s.valuationRepo.FindLatestByAccountId(ctx, account.ID)
		if err == nil {
			date := latest.Date.Format(time.DateOnly)
			view.LatestDate = &date
			view.LatestValue = &latest.TotalValue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		flows, err := s.cashFlowRepo.FindByAccountId(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		view.CashFlowCount = len(flows)

		views = append(views, view)
	}
	return views, nil
}

// AddManualFlow 为账户手工补录一条外部现金流。
// 投入记为负数，取出记为正数，金额为零直接拒绝。
func (s *AccountService) AddManualFlow(ctx context.Context, accountID string, date time.Time, amount float64, currency, note string) (*models.CashFlow, error) {
	if amount == 0 {
		return nil, xe.ErrZeroAmountFlow
	}

	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xe.ErrAccountNotFound
		}
		return nil, err
	}

	if currency == "" {
		currency = account.BaseCurrency
	}
	flow := &models.CashFlow{
		ID:        ulid.Make().String(),
		AccountID: account.ID,
		Date:      date,
		Amount:    amount,
		Currency:  currency,
		Note:      note,
	}
	if err := s.cashFlowRepo.Create(ctx, flow); err != nil {
		return nil, err
	}

	s.logger.Info("manual cash flow recorded",
		zap.String("account_id", account.ID),
		zap.Float64("amount", amount))
	return flow, nil
}
