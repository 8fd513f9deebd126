package services

import (
	"atii-cms/internal/shared/utils"

	"gorm.io/gorm"
)

// ListOptions 列表分页参数
type ListOptions struct {
	Skip  int
	Limit int
}

// paginate 应用 skip/limit 并按插入顺序排序
func (o ListOptions) paginate(db *gorm.DB) *gorm.DB {
	limit := o.Limit
	if limit <= 0 || limit > utils.MaxLimit {
		limit = utils.DefaultLimit
	}
	skip := o.Skip
	if skip < 0 {
		skip = 0
	}
	return db.Order("created_at ASC").Order("id ASC").Offset(skip).Limit(limit)
}
