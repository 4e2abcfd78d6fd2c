package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecophos-dev/ecophos/internal/apperr"
	"github.com/ecophos-dev/ecophos/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("secret", DefaultTTL)
	want := Identity{ID: "u1", Email: "a@x.com", Name: "Ana", Role: "admin"}

	token, err := issuer.Issue(want)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != want {
		t.Errorf("expected %#v, got %#v", want, got)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _ := NewIssuer("secret", DefaultTTL).Issue(Identity{ID: "u1"})

	if _, err := NewIssuer("other", DefaultTTL).Verify(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.Issue(Identity{ID: "u1"})
	if err != nil {
		t.Fatal(err)
	}

	issuer.now = time.Now
	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewIssuer("secret", DefaultTTL).Verify(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := NewIssuer("secret", DefaultTTL).Verify("not.a.token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionsCookieRoundTrip(t *testing.T) {
	sessions := NewSessions(NewIssuer("secret", DefaultTTL), CookieConfig{Name: "token"})

	w := httptest.NewRecorder()
	if err := sessions.Start(w, Identity{ID: "u1", Email: "a@x.com"}); err != nil {
		t.Fatal(err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Secure {
		t.Errorf("unexpected cookie attributes: %#v", c)
	}
	if c.MaxAge != int(DefaultTTL.Seconds()) {
		t.Errorf("expected MaxAge %d, got %d", int(DefaultTTL.Seconds()), c.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)

	id, err := sessions.FromRequest(req)
	if err != nil || id.ID != "u1" {
		t.Errorf("expected identity u1, got %#v, %v", id, err)
	}

	if _, err := sessions.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken without cookie, got %v", err)
	}
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("pw1", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		stored    models.Password
		candidate string
		want      bool
	}{
		{"hashed match", hashed, "pw1", true},
		{"hashed mismatch", hashed, "pw2", false},
		{"plaintext match", models.PlaintextPassword("123456"), "123456", true},
		{"plaintext mismatch", models.PlaintextPassword("123456"), "1234567", false},
		{"empty stored", models.Password{}, "", false},
		{"empty candidate", models.PlaintextPassword("x"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.stored, tt.candidate); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHashPasswordTooLongIsBadRequest(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 73), bcrypt.MinCost)
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Errorf("expected bad request, got %v", err)
	}
}
