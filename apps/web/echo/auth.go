package echoweb

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/session"
)

const (
	loginPath        = "/login"
	signupPath       = "/signup"
	logoutPath       = "/logout"
	dashboardPath    = "/dashboard"
	unauthorizedPath = "/unauthorized"
)

var errInvalidSessionToken = errors.New("invalid session token")

// Claims is the signed content of the dashboard session cookie. It carries
// only the session id plus a role snapshot; the authoritative session lives
// in the store and always wins over these claims.
type Claims struct {
	jwt.StandardClaims
	SessionID    string `json:"sid"`
	Username     string `json:"username,omitempty"`
	IsStaff      bool   `json:"is_staff,omitempty"`
	IsInstructor bool   `json:"is_instructor,omitempty"`
	IsStudent    bool   `json:"is_student,omitempty"`
}

func getSessionClaims(conf *core.Config, sess session.Session) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   sess.ID,
			ExpiresAt: now.Add(conf.Server.SessionTTL).Unix(),
			IssuedAt:  now.Unix(),
		},
		SessionID:    sess.ID,
		Username:     sess.User.Username,
		IsStaff:      sess.IsStaff(),
		IsInstructor: sess.IsInstructor(),
		IsStudent:    sess.IsStudent(),
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func parseToken(conf *core.Config, tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidSessionToken
		}
		return []byte(conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidSessionToken
	}
	return claims, nil
}

func setSessionCookie(ctx echo.Context, conf *core.Config, sess session.Session) error {
	token, err := GenerateToken(conf, getSessionClaims(conf, sess))
	if err != nil {
		return errors.Wrap(err, "generating session token")
	}
	ctx.SetCookie(&http.Cookie{
		Name:     conf.Server.SessionName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(conf.Server.SessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(ctx echo.Context, conf *core.Config) {
	ctx.SetCookie(&http.Cookie{
		Name:     conf.Server.SessionName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
