package repo

import (
	"context"

	"github.com/dushixiang/folio/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewIngestReportRepo(db *gorm.DB) *IngestReportRepo {
	return &IngestReportRepo{
		Repository: orz.NewRepository[models.IngestReport, string](db),
	}
}

type IngestReportRepo struct {
	orz.Repository[models.IngestReport, string]
}

// FindLatest 获取最近一次扫描报告
func (r IngestReportRepo) FindLatest(ctx context.Context) (m models.IngestReport, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Order("started_at DESC").
		First(&m).Error
	return m, err
}
