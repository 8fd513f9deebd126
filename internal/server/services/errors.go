package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 按id或键查找不到记录
	ErrNotFound = errors.New("记录不存在")
	// ErrConflict 违反唯一约束
	ErrConflict = errors.New("记录已存在")
	// ErrInvalidInput 请求字段不合法
	ErrInvalidInput = errors.New("请求参数错误")
)

// TranslateError 把存储层错误归类为业务错误
// 唯一索引冲突统一映射为 ErrConflict，已归类的错误原样返回
func TranslateError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidInput):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", ErrConflict, action)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
