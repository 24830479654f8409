package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/color-names/api/models"
	"github.com/color-names/api/resolver"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// GET /
func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "ISCC-NBS Color Name API")
}

type resolveMatch struct {
	resolver.Match
	Ancestors []models.ColorName `json:"ancestors,omitempty"`
}

type resolveResponse struct {
	Hue     string         `json:"hue"`
	Value   float64        `json:"value"`
	Chroma  float64        `json:"chroma"`
	Matches []resolveMatch `json:"matches"`
}

// GET /v1/resolve?hue=5R&value=5.0&chroma=4.0[&context=true]
func (app *Application) resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	query := r.URL.Query()
	hueToken := query.Get("hue")
	if hueToken == "" {
		app.badRequest(w, r, errors.New("hue is required"))
		return
	}
	value, errValue := strconv.ParseFloat(query.Get("value"), 64)
	if errValue != nil {
		app.badRequest(w, r, fmt.Errorf("value is required as a number: %v", errValue))
		return
	}
	chroma, errChroma := strconv.ParseFloat(query.Get("chroma"), 64)
	if errChroma != nil {
		app.badRequest(w, r, fmt.Errorf("chroma is required as a number: %v", errChroma))
		return
	}
	withContext, _ := strconv.ParseBool(query.Get("context"))

	res := app.Resolver()
	matches, err := res.ResolveToken(hueToken, value, chroma)
	if err != nil {
		var coordinateErr *resolver.InvalidCoordinateError
		if errors.As(err, &coordinateErr) {
			app.invalidCoordinate(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	// An empty match list is a legal answer meaning the point lies
	// outside the named gamut, so it still returns 200.
	response := resolveResponse{
		Hue:     hueToken,
		Value:   value,
		Chroma:  chroma,
		Matches: []resolveMatch{},
	}
	for _, match := range matches {
		rm := resolveMatch{Match: match}
		if withContext {
			ancestors, ancestorsErr := res.Ancestors(match.Color.ID)
			if ancestorsErr != nil {
				app.internalServerError(w, r, ancestorsErr)
				return
			}
			rm.Ancestors = ancestors
		}
		response.Matches = append(response.Matches, rm)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// GET /v1/names
func (app *Application) getNames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string][]models.ColorName{
		"names": app.Resolver().Names(),
	})
}

// GET /v1/names/lookup?id=N
func (app *Application) lookupName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	colorID, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		app.badRequest(w, r, fmt.Errorf("id is required as an integer: %v", err))
		return
	}

	name, err := app.Resolver().LookupById(colorID)
	if err != nil {
		var notFoundErr *resolver.NotFoundError
		if errors.As(err, &notFoundErr) {
			app.notFound(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(name)
}

type centroidResponse struct {
	Color    int            `json:"color"`
	Centroid models.Munsell `json:"centroid"`
	Munsell  string         `json:"munsell"`
}

// GET /v1/centroids?id=N
func (app *Application) getCentroid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	colorID, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		app.badRequest(w, r, fmt.Errorf("id is required as an integer: %v", err))
		return
	}

	centroid, err := app.Resolver().Centroid(colorID)
	if err != nil {
		var notFoundErr *resolver.NotFoundError
		if errors.As(err, &notFoundErr) || errors.Is(err, resolver.ErrNoRegion) {
			app.notFound(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(centroidResponse{
		Color:    colorID,
		Centroid: centroid,
		Munsell:  centroid.String(),
	})
}

type loginRequest struct {
	Password string `json:"password"`
}

// POST /v1/auth/login
func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	creds := &loginRequest{}
	if err := json.NewDecoder(r.Body).Decode(creds); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if app.Config.AdminPasswordHash == "" {
		app.invalidCredentials(w, r, errors.New("admin login is not configured"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(app.Config.AdminPasswordHash), []byte(creds.Password)); err != nil {
		app.invalidCredentials(w, r, errors.New("invalid password"))
		return
	}

	expiry := time.Now().Add(time.Duration(app.Config.JwtAccessDuration) * time.Second)
	claims := models.JWTClaims{
		Scope:     models.AdminScope,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(app.Config.JwtSecret))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     models.JWT.ACCESS_COOKIE_NAME,
		Value:    signed,
		Path:     "/",
		Domain:   app.Config.JwtDomain,
		Expires:  expiry,
		HttpOnly: true,
		Secure:   !app.Config.DevMode,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]time.Time{"expiry": expiry})
}

// POST /v1/admin/dataset/reload
func (app *Application) reloadDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	if err := app.LoadDataset(); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	doc := app.Resolver().Document()
	log.Printf("dataset reloaded from %s: %d charts", app.Config.DatasetSource, len(doc.Ranges))

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "reloaded",
		"charts": len(doc.Ranges),
	})
}

// POST /v1/admin/dataset/seed
func (app *Application) seedDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	if app.DatasetRepo == nil {
		app.internalServerError(w, r, errors.New("database is not configured"))
		return
	}

	doc := app.Resolver().Document()
	if err := app.DatasetRepo.Seed(doc); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	log.Printf("dataset seeded into database: %d charts", len(doc.Ranges))

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "seeded",
		"charts": len(doc.Ranges),
	})
}
