package tui

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/bidboard/pkg/domain"
)

// tokenClaims is what the header shows about the access token. The token is
// parsed without verification and only for display.
type tokenClaims struct {
	subject string
	expires time.Time
	parsed  bool
}

func inspectToken(raw string) tokenClaims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return tokenClaims{}
	}
	tc := tokenClaims{parsed: true}
	tc.subject, _ = claims.GetSubject() //nolint:errcheck // absent claim reads as ""
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.expires = exp.Time
	}
	return tc
}

// shortToken keeps the head and tail of a long token.
func shortToken(tok string) string {
	if len(tok) <= 24 {
		return tok
	}
	return tok[:12] + "…" + tok[len(tok)-8:]
}

// tokenPanel renders the one-line session summary.
func tokenPanel(s domain.Session, now time.Time) string {
	if !s.Authenticated() {
		return metaStyle.Render("not signed in")
	}
	parts := []string{
		metaStyle.Render("token ") + dimStyle.Render(shortToken(s.Token)),
	}
	if label := s.UserType.Label(); label != "" {
		parts = append(parts, accentStyle.Render(label))
	}
	tc := inspectToken(s.Token)
	if tc.subject != "" {
		parts = append(parts, metaStyle.Render("sub ")+normalStyle.Render(tc.subject))
	}
	if !tc.expires.IsZero() {
		if tc.expires.After(now) {
			parts = append(parts, metaStyle.Render("expires "+humanize.RelTime(tc.expires, now, "ago", "from now")))
		} else {
			parts = append(parts, warnStyle.Render("expired "+humanize.RelTime(tc.expires, now, "ago", "from now")))
		}
	}
	return strings.Join(parts, metaStyle.Render(" · "))
}
