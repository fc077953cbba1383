package repo

import (
	"context"

	"github.com/dushixiang/folio/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewSourceFileRepo(db *gorm.DB) *SourceFileRepo {
	return &SourceFileRepo{
		Repository: orz.NewRepository[models.SourceFile, string](db),
	}
}

type SourceFileRepo struct {
	orz.Repository[models.SourceFile, string]
}

// ExistsByPath 判断文件是否已导入过
func (r SourceFileRepo) ExistsByPath(ctx context.Context, path string) (bool, error) {
	var count int64
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("path = ?", path).
		Count(&count).Error
	return count > 0, err
}
