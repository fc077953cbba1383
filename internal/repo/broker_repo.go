package repo

import (
	"context"

	"github.com/dushixiang/folio/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewBrokerRepo(db *gorm.DB) *BrokerRepo {
	return &BrokerRepo{
		Repository: orz.NewRepository[models.Broker, string](db),
	}
}

type BrokerRepo struct {
	orz.Repository[models.Broker, string]
}

// FindByName 按名称查找券商
func (r BrokerRepo) FindByName(ctx context.Context, name string) (m models.Broker, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Where("name = ?", name).
		First(&m).Error
	return m, err
}
