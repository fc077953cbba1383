package repo

import (
	"context"

	"github.com/dushixiang/folio/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewValuationRepo(db *gorm.DB) *ValuationRepo {
	return &ValuationRepo{
		Repository: orz.NewRepository[models.Valuation, string](db),
	}
}

type ValuationRepo struct {
	orz.Repository[models.Valuation, string]
}

// FindByAccountId 获取账户的全部估值（按日期排序）
func (r ValuationRepo) FindByAccountId(ctx context.Context, accountID string) ([]models.Valuation, error) {
	var valuations []models.Valuation
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("account_id = ?", accountID).
		Order("date ASC").
		Find(&valuations).Error
	return valuations, err
}

// FindLatestByAccountId 获取账户日期最大的一条估值
func (r ValuationRepo) FindLatestByAccountId(ctx context.Context, accountID string) (m models.Valuation, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Where("account_id = ?", accountID).
		Order("date DESC").
		First(&m).Error
	return m, err
}

// FindLatestPerAccount 获取每个账户日期最大的一条估值。
// 没有任何估值的账户不会出现在结果里。
func (r ValuationRepo) FindLatestPerAccount(ctx context.Context) ([]models.Valuation, error) {
	var valuations []models.Valuation
	db := r.GetDB(ctx)
	sub := db.Table(r.GetTableName()).
		Select("account_id, MAX(date) AS max_date").
		Group("account_id")
	err := db.Table(r.GetTableName()).
		Joins("JOIN (?) latest ON valuations.account_id = latest.account_id AND valuations.date = latest.max_date", sub).
		Find(&valuations).Error
	return valuations, err
}
