package auth

import (
	"net/http"
)

// CookieConfig describes the session cookie. Secure defaults to false so
// the app works over plain HTTP; set it in any real deployment.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// Sessions ties the token issuer to the cookie that carries it.
type Sessions struct {
	Issuer *Issuer
	Cookie CookieConfig
}

func NewSessions(issuer *Issuer, cookie CookieConfig) *Sessions {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &Sessions{Issuer: issuer, Cookie: cookie}
}

// Start issues a token for identity and sets it as the session cookie.
func (s *Sessions) Start(w http.ResponseWriter, identity Identity) error {
	token, err := s.Issuer.Issue(identity)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.Cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   s.Cookie.Domain,
		MaxAge:   int(s.Issuer.TTL().Seconds()),
		Secure:   s.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// End clears the session cookie. The token itself stays valid until expiry.
func (s *Sessions) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   s.Cookie.Domain,
		MaxAge:   -1,
		Secure:   s.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest returns the identity carried by the request's session cookie.
// A missing cookie and a bad token both yield ErrInvalidToken.
func (s *Sessions) FromRequest(r *http.Request) (Identity, error) {
	cookie, err := r.Cookie(s.Cookie.Name)
	if err != nil || cookie.Value == "" {
		return Identity{}, ErrInvalidToken
	}

	return s.Issuer.Verify(cookie.Value)
}
