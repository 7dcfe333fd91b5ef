package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/przemobski1986/hvacquotepro/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-tests",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 14 * 24 * time.Hour,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "tenant-1", "admin")
	if err != nil {
		t.Fatalf("生成 access token 失败: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token 格式不正确: %s", token)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %s, 期望 user-1", claims.UserID)
	}
	if claims.TenantID != "tenant-1" {
		t.Errorf("TenantID = %s, 期望 tenant-1", claims.TenantID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %s, 期望 admin", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %s, 期望 access", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("jti 不应为空")
	}
}

func TestRefreshTokenType(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-2", "tenant-1", "sales")
	if err != nil {
		t.Fatalf("生成 refresh token 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("TokenType = %s, 期望 refresh", claims.TokenType)
	}
}

func TestParseExpiredToken(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-tests",
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: time.Hour,
	})

	token, err := m.GenerateAccessToken("user-1", "tenant-1", "sales")
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired, 实际 %v", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{
		JWTSecret:       "another-secret-entirely-different",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})

	token, err := m.GenerateAccessToken("user-1", "tenant-1", "sales")
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}

	if _, err := other.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid, 实际 %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	m := newTestManager()
	if _, err := m.ParseToken("not-a-jwt"); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid, 实际 %v", err)
	}
}
