package utils_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lthoa462/homework/utils"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestTokenManager_IssueVerify verifies that a fresh token is accepted and
// carries the user id and username.
func TestTokenManager_IssueVerify(t *testing.T) {
	now := time.Date(2025, 9, 16, 8, 0, 0, 0, time.UTC)
	m := utils.NewTokenManager("secret", time.Hour).WithClock(fixedClock(now))

	token, err := m.Issue(42, "gvcn")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "gvcn" {
		t.Errorf("expected {42 gvcn}, got {%d %s}", claims.UserID, claims.Username)
	}
	if got := claims.ExpiresAt.Time; !got.Equal(now.Add(time.Hour)) {
		t.Errorf("expected expiry %s, got %s", now.Add(time.Hour), got)
	}
}

// TestTokenManager_Expiry verifies the one-hour boundary.
func TestTokenManager_Expiry(t *testing.T) {
	issuedAt := time.Date(2025, 9, 16, 8, 0, 0, 0, time.UTC)
	issuer := utils.NewTokenManager("secret", time.Hour).WithClock(fixedClock(issuedAt))

	token, err := issuer.Issue(1, "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"just before expiry", issuedAt.Add(59*time.Minute + 59*time.Second), nil},
		{"at expiry", issuedAt.Add(time.Hour), utils.ErrExpiredToken},
		{"after expiry", issuedAt.Add(2 * time.Hour), utils.ErrExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := utils.NewTokenManager("secret", time.Hour).WithClock(fixedClock(tt.at))
			_, err := v.Verify(token)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected valid token, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, utils.ErrInvalidToken) {
				t.Errorf("expected expiry to also match ErrInvalidToken")
			}
		})
	}
}

// TestTokenManager_WrongSecret verifies that a token signed with another
// secret is always rejected.
func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := utils.NewTokenManager("secret-a", time.Hour).Issue(1, "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = utils.NewTokenManager("secret-b", time.Hour).Verify(token)
	if !errors.Is(err, utils.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if errors.Is(err, utils.ErrExpiredToken) {
		t.Errorf("a bad signature must not be reported as expiry")
	}
}

func TestTokenManager_RejectsMalformed(t *testing.T) {
	m := utils.NewTokenManager("secret", time.Hour)

	for _, token := range []string{"", "abc", "a.b.c"} {
		if _, err := m.Verify(token); !errors.Is(err, utils.ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

// TestTokenManager_RejectsOtherAlgorithms verifies that only HS256 is accepted.
func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := utils.Claims{
		UserID:   1,
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := utils.NewTokenManager("secret", time.Hour).Verify(token); !errors.Is(err, utils.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_RejectsMissingUserID(t *testing.T) {
	claims := utils.Claims{
		Username: "ghost",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := utils.NewTokenManager("secret", time.Hour).Verify(token); !errors.Is(err, utils.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_EmptySecret(t *testing.T) {
	if _, err := utils.NewTokenManager("", time.Hour).Issue(1, "admin"); err == nil {
		t.Fatal("expected Issue to fail with an empty secret")
	}
}
