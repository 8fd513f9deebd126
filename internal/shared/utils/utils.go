package utils

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// 分页默认值
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// HashPassword 密码加密
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword 验证密码
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ParsePagination 解析 skip/limit 分页参数
// 非法值回退为默认值，limit 超过上限时截断为 MaxLimit
func ParsePagination(r *http.Request) (skip, limit int) {
	query := r.URL.Query()

	skip, err := strconv.Atoi(query.Get("skip"))
	if err != nil || skip < 0 {
		skip = 0
	}

	limit, err = strconv.Atoi(query.Get("limit"))
	switch {
	case err != nil || limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return skip, limit
}

// ParseBoolQuery 解析可选的布尔查询参数，缺省时返回nil，非法值返回错误
func ParseBoolQuery(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("查询参数 %s 必须是布尔值: %q", key, raw)
	}
	return &value, nil
}

// IsValidEmail 验证邮箱格式
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.ToLower(email))
}
