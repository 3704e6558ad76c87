package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionIDKey   = "session_id" // string
	SessionCookieName = "sid"
)

// セッションcookie（HS256のJWT、sub=セッションID）を検証し、無効なら新しく発行する。
// 認証ではなく、ブラウザのタブ/セッションの識別だけに使う。
func SessionToken(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.SessionSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//cookieがあれば検証してsubを取り出す
			if ck, err := c.Cookie(SessionCookieName); err == nil {
				if sid, err := parseSessionToken(secret, ck.Value); err == nil {
					c.Set(CtxSessionIDKey, sid)
					return next(c)
				}
			}

			//無い/壊れている場合は新しいセッション
			sid := uuid.NewString()
			signed, err := issueSessionToken(secret, sid, time.Now(), cfg.SessionTTL)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			c.SetCookie(&http.Cookie{
				Name:     SessionCookieName,
				Value:    signed,
				Path:     "/",
				HttpOnly: true,
				Secure:   cfg.IsProd(),
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(CtxSessionIDKey, sid)
			return next(c)
		}
	}
}

// SessionID はハンドラからセッションIDを取り出す。
func SessionID(c echo.Context) (string, bool) {
	sid, ok := c.Get(CtxSessionIDKey).(string)
	return sid, ok && sid != ""
}

func issueSessionToken(secret []byte, sid string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  sid,
		IssuedAt: jwt.NewNumericDate(now),
	}
	//ttlは無操作の寿命なので、cookie自体は長めにする
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(24 * time.Hour))
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

func parseSessionToken(secret []byte, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty token")
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	//subはUUID
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("invalid sub")
	}
	return claims.Subject, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
