package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-jwt-signing-32"

func TestGenerateAndParseAccessToken(t *testing.T) {
	token, err := GenerateAccessToken("controller", RoleOperator, "n1", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ParseToken(token, "n1", testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "controller" {
		t.Errorf("Subject = %q, want controller", claims.Subject)
	}
	if claims.Role != RoleOperator {
		t.Errorf("Role = %q, want operator", claims.Role)
	}
	if claims.ID == "" {
		t.Error("JTI (ID) should not be empty")
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != 15*time.Minute {
		t.Errorf("ttl = %v, want 15m", ttl)
	}
}

func TestGenerateAccessToken_InvalidRole(t *testing.T) {
	_, err := GenerateAccessToken("x", Role("owner"), "n1", testSecret, 15)
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("error = %v, want ErrInvalidRole", err)
	}
}

func TestGenerateAccessToken_DefaultTTL(t *testing.T) {
	token, err := GenerateAccessToken("x", RoleViewer, "n1", testSecret, 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	claims, err := ParseToken(token, "n1", testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != defaultTTLMinutes*time.Minute {
		t.Errorf("ttl = %v", ttl)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	good, err := GenerateAccessToken("controller", RoleAdmin, "n1", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	sign := func(claims CustomClaims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("signing: %v", err)
		}
		return s
	}
	valid := func() CustomClaims {
		return CustomClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "controller",
				Audience:  jwt.ClaimStrings{"n1"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
			Role: RoleAdmin,
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noSubject := valid()
	noSubject.Subject = ""
	badRole := valid()
	badRole.Role = "owner"
	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name, token, node, secret string
	}{
		{"garbage", "not-a-valid-jwt", "n1", testSecret},
		{"wrong secret", good, "n1", "another-secret-key-of-enough-length"},
		{"other node", good, "n2", testSecret},
		{"expired", sign(expired, jwt.SigningMethodHS256, []byte(testSecret)), "n1", testSecret},
		{"no subject", sign(noSubject, jwt.SigningMethodHS256, []byte(testSecret)), "n1", testSecret},
		{"unknown role", sign(badRole, jwt.SigningMethodHS256, []byte(testSecret)), "n1", testSecret},
		{"no expiry", sign(noExpiry, jwt.SigningMethodHS256, []byte(testSecret)), "n1", testSecret},
		{"wrong method", sign(valid(), jwt.SigningMethodHS512, []byte(testSecret)), "n1", testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.node, tt.secret)
			if !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
			}
		})
	}
}
