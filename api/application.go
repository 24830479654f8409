package api

import (
	"errors"
	"sync/atomic"

	"github.com/color-names/api/datastore"
	"github.com/color-names/api/models"
	"github.com/color-names/api/resolver"
)

type Config struct {
	HTTPPort          string
	DatasetSource     string // "file" or "postgres"
	DatasetPath       string
	DatabaseType      string
	DatabaseUser      string
	DatabasePassword  string
	DatabaseName      string
	SSLMode           string
	JwtSecret         string
	JwtAccessDuration int // seconds
	JwtDomain         string
	AdminPasswordHash string // bcrypt hash the admin login is checked against
	AllowedOrigins    []string
	DevMode           bool
	StrictValidation  bool
}

type Application struct {
	Config      Config
	DatasetRepo datastore.DatasetRepository

	// resolver is the live dataset handle. A reload swaps in a freshly
	// loaded handle; in-flight queries finish against the old one.
	resolver atomic.Pointer[resolver.Resolver]
}

// Resolver returns the current dataset handle.
func (app *Application) Resolver() *resolver.Resolver {
	return app.resolver.Load()
}

// SetResolver atomically replaces the dataset handle.
func (app *Application) SetResolver(r *resolver.Resolver) {
	app.resolver.Store(r)
}

// LoadDataset reads the configured dataset source, builds a resolver
// from it, and swaps it in as the live handle. A load failure leaves
// the previous handle untouched.
func (app *Application) LoadDataset() error {
	var doc models.Document
	var err error

	switch app.Config.DatasetSource {
	case "postgres":
		if app.DatasetRepo == nil {
			return errors.New("postgres dataset source requires a database connection")
		}
		doc, err = app.DatasetRepo.LoadDocument()
	default:
		doc, err = models.LoadDocumentFile(app.Config.DatasetPath)
	}
	if err != nil {
		return err
	}

	res, err := resolver.Load(doc, resolver.Options{StrictCoverage: app.Config.StrictValidation})
	if err != nil {
		return err
	}

	app.SetResolver(res)
	return nil
}
