package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"morsechat/internal/models"
	"morsechat/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const accountIDKey = "accountID"

// ErrRefreshTokenInvalid 表示 refresh token 不存在、已过期或已被使用。
var ErrRefreshTokenInvalid = errors.New("refresh token invalid")

type Claims struct {
	AccountID uint `json:"uid"`
	jwt.RegisteredClaims
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func GenerateAccessToken(accountID uint, secret string, ttlMinutes int) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseAccessToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func GenerateRefreshToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func SaveRefreshToken(db *gorm.DB, accountID uint, token string, expiresAt time.Time) error {
	rt := models.RefreshToken{AccountID: accountID, Token: token, ExpiresAt: expiresAt}
	return db.Create(&rt).Error
}

// ConsumeRefreshToken 吊销一个有效的 refresh token 并返回其记录。
// 吊销是一条带条件的 UPDATE，多个请求争用同一个 token 时只有一个成功。
func ConsumeRefreshToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	now := time.Now()
	res := db.Model(&models.RefreshToken{}).
		Where("token = ? AND revoked_at IS NULL AND expires_at > ?", token, now).
		Update("revoked_at", &now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrRefreshTokenInvalid
	}
	var rt models.RefreshToken
	if err := db.Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken 吊销 token，返回值表示吊销前是否有效。
func RevokeRefreshToken(db *gorm.DB, token string) (bool, error) {
	now := time.Now()
	res := db.Model(&models.RefreshToken{}).Where("token = ? AND revoked_at IS NULL", token).Update("revoked_at", &now)
	return res.RowsAffected > 0, res.Error
}

// Middleware 校验 Bearer Token 并确认账号存在，再把账号 id 写入 gin.Context。
func Middleware(secret string, accounts *store.AccountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := ParseAccessToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		ok, err := accounts.Exists(c.Request.Context(), claims.AccountID)
		if err != nil || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
			return
		}
		c.Set(accountIDKey, claims.AccountID)
		c.Next()
	}
}

func GetAccountID(c *gin.Context) uint {
	if v, ok := c.Get(accountIDKey); ok {
		if id, ok2 := v.(uint); ok2 {
			return id
		}
	}
	return 0
}
