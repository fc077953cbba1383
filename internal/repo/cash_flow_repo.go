package repo

import (
	"context"
	"time"

	"github.com/dushixiang/folio/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewCashFlowRepo(db *gorm.DB) *CashFlowRepo {
	return &CashFlowRepo{
		Repository: orz.NewRepository[models.CashFlow, string](db),
	}
}

type CashFlowRepo struct {
	orz.Repository[models.CashFlow, string]
}

// FindByAccountId 获取账户的全部外部现金流（按日期排序）
func (r CashFlowRepo) FindByAccountId(ctx context.Context, accountID string) ([]models.CashFlow, error) {
	var flows []models.CashFlow
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("account_id = ?", accountID).
		Order("date ASC").
		Find(&flows).Error
	return flows, err
}

// SumByAccountIdBetween 统计 (after, until] 半开区间内的投入与取出合计，
// 区间边界与 TWR 的子区间归集规则保持一致。投入按绝对值返回。
func (r CashFlowRepo) SumByAccountIdBetween(ctx context.Context, accountID string, after, until time.Time) (contributions, withdrawals float64, err error) {
	var result struct {
		Contributions float64
		Withdrawals   float64
	}
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Select("COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) AS contributions, "+
			"COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS withdrawals").
		Where("account_id = ? AND date > ? AND date <= ?", accountID, after, until).
		Scan(&result).Error
	return result.Contributions, result.Withdrawals, err
}

// FindAllOrderByDate 获取全部现金流（按日期排序），用于图表的净流入序列
func (r CashFlowRepo) FindAllOrderByDate(ctx context.Context) ([]models.CashFlow, error) {
	var flows []models.CashFlow
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("date ASC").
		Find(&flows).Error
	return flows, err
}
