package api

import (
	"errors"
	"net/http"

	"github.com/color-names/api/models"
)

func handleCors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Headers", "Access-Control-Allow-Credentials, Access-Control-Allow-Origin, Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if r.Method == "OPTIONS" {
			return
		} else {
			h.ServeHTTP(w, r)
		}
	}
}

// getAdminFromJWT validates the JWT access token cookie and requires
// the admin scope.
func (app *Application) getAdminFromJWT(r *http.Request) (*models.JWTClaims, error) {
	cookie, err := r.Cookie(models.JWT.ACCESS_COOKIE_NAME)
	if err != nil {
		return nil, errors.New("no JWT cookie found")
	}

	claims, err := models.ValidateJWTToken(cookie.Value, app.Config.JwtSecret)
	if err != nil {
		return nil, err
	}

	if claims.Scope != models.AdminScope {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// adminOnly gates a handler behind a valid admin token
func (app *Application) adminOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := app.getAdminFromJWT(r); err != nil {
			app.invalidAuthorization(w, r, err)
			return
		}

		h.ServeHTTP(w, r)
	}
}
