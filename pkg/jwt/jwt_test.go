package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/Devign20164/DormieReact-sub000/config"
)

func testManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-at-least-16-chars",
		Issuer:    "dormie-auth",
	})
}

// issueToken 模拟外部认证服务签发 Token
func issueToken(secret, issuer, userID, role string, ttl time.Duration) string {
	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: "access",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwtv5.NewNumericDate(time.Now()),
		},
	}
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(secret))
	return signed
}

func TestParseToken_Valid(t *testing.T) {
	m := testManager()
	tokenString := issueToken("test-secret-key-at-least-16-chars", "dormie-auth", "user-001", "admin", 15*time.Minute)

	claims, err := m.ParseToken(tokenString)
	if err != nil {
		t.Fatalf("合法 Token 解析应成功: %v", err)
	}
	if claims.UserID != "user-001" {
		t.Errorf("期望 UserID=user-001，实际 %s", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("期望 Role=admin，实际 %s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 TokenType=access，实际 %s", claims.TokenType)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := testManager()
	tokenString := issueToken("test-secret-key-at-least-16-chars", "dormie-auth", "user-001", "student", -1*time.Minute)

	_, err := m.ParseToken(tokenString)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("过期 Token 期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := testManager()
	tokenString := issueToken("another-secret-key-16-chars-min", "dormie-auth", "user-001", "student", 15*time.Minute)

	_, err := m.ParseToken(tokenString)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("错误密钥期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	m := testManager()
	tokenString := issueToken("test-secret-key-at-least-16-chars", "another-issuer", "user-001", "student", 15*time.Minute)

	_, err := m.ParseToken(tokenString)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("错误签发方期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := testManager()

	_, err := m.ParseToken("not-a-jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("非法字符串期望 ErrTokenInvalid，实际: %v", err)
	}
}
