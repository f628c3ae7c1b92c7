package handlers

import (
	"testing"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/models"

	"github.com/golang-jwt/jwt/v5"
)

func parseIssuedToken(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		t.Fatalf("parsing issued token: %v", err)
	}
	if !token.Valid {
		t.Fatal("issued token did not validate")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not MapClaims")
	}
	return claims
}

func TestIssueTokenClaims(t *testing.T) {
	user := models.User{
		UID:   "uid-123",
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  "user",
	}

	tokenString, err := issueToken(user, time.Hour, "")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	claims := parseIssuedToken(t, tokenString)
	if claims["uid"] != "uid-123" {
		t.Errorf("uid claim = %v, want uid-123", claims["uid"])
	}
	if claims["email"] != "asha@example.com" {
		t.Errorf("email claim = %v, want asha@example.com", claims["email"])
	}
	if claims["role"] != "user" {
		t.Errorf("role claim = %v, want user", claims["role"])
	}
	if _, present := claims["type"]; present {
		t.Error("access token should carry no type claim")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("exp claim missing")
	}
	remaining := time.Until(time.Unix(int64(exp), 0))
	if remaining < 55*time.Minute || remaining > time.Hour {
		t.Errorf("token lifetime %v, want about an hour", remaining)
	}
}

func TestIssueTokenRefreshType(t *testing.T) {
	tokenString, err := issueToken(models.User{UID: "uid-456"}, 24*time.Hour, "refresh")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	claims := parseIssuedToken(t, tokenString)
	if claims["type"] != "refresh" {
		t.Errorf("type claim = %v, want refresh", claims["type"])
	}
}
