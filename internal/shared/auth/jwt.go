package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"atii-cms/internal/server/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeBearer 登录响应中的令牌类型
const TokenTypeBearer = "bearer"

// JWTClaims JWT声明，Subject 为用户名
type JWTClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Token 登录响应
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// JWTService JWT服务
type JWTService struct {
	secret       []byte
	issuer       string
	accessExpiry time.Duration
	now          func() time.Time
}

// NewJWTService 创建JWT服务
func NewJWTService(secret, issuer string, accessExpiry time.Duration) *JWTService {
	return &JWTService{
		secret:       []byte(secret),
		issuer:       issuer,
		accessExpiry: accessExpiry,
		now:          time.Now,
	}
}

// GenerateAccessToken 生成访问令牌
func (j *JWTService) GenerateAccessToken(user *models.User) (*Token, error) {
	now := j.now()

	claims := &JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessExpiry)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return nil, fmt.Errorf("生成访问令牌失败: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(j.accessExpiry.Seconds()),
	}, nil
}

// ValidateAccessToken 验证访问令牌，失败统一返回 ErrUnauthenticated
func (j *JWTService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("意外的签名方法: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: 解析令牌失败: %v", ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: 无效的令牌", ErrUnauthenticated)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: 令牌缺少subject", ErrUnauthenticated)
	}

	return claims, nil
}

// ExtractTokenFromHeader 从HTTP头部提取令牌
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("授权头部为空")
	}

	// 期望格式: "Bearer <token>"，scheme 不区分大小写
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("无效的授权头部格式")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("令牌为空")
	}

	return token, nil
}
