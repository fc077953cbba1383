package repo

import (
	"context"

	"github.com/dushixiang/folio/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewAccountRepo(db *gorm.DB) *AccountRepo {
	return &AccountRepo{
		Repository: orz.NewRepository[models.Account, string](db),
	}
}

type AccountRepo struct {
	orz.Repository[models.Account, string]
}

// FindByBrokerIdAndName 查找某券商下指定名称的账户
func (r AccountRepo) FindByBrokerIdAndName(ctx context.Context, brokerID, name string) (m models.Account, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Where("broker_id = ? AND name = ?", brokerID, name).
		First(&m).Error
	return m, err
}

// FindAllOrderByName 获取所有账户（按名称排序）
func (r AccountRepo) FindAllOrderByName(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("name ASC").
		Find(&accounts).Error
	return accounts, err
}
