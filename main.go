package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/color-names/api/api"
	"github.com/color-names/api/datastore"
	"github.com/color-names/api/migrations"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Get configuration from environment
	config := api.Config{
		HTTPPort:          getEnv("HTTP_PORT", ":8080"),
		DatasetSource:     getEnv("DATASET_SOURCE", "file"),
		DatasetPath:       getEnv("DATASET_PATH", "iscc-nbs.xml"),
		DatabaseType:      getEnv("DB_TYPE", "postgres"),
		DatabaseUser:      getEnv("DB_USER", "postgres"),
		DatabasePassword:  getEnv("DB_PASSWORD", ""),
		DatabaseName:      getEnv("DB_NAME", "colornames"),
		SSLMode:           getEnv("SSL_MODE", "disable"),
		JwtSecret:         getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JwtAccessDuration: getEnvInt("JWT_ACCESS_DURATION", 900), // 15 minutes
		JwtDomain:         getEnv("JWT_DOMAIN", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AllowedOrigins:    getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		DevMode:           getEnvBool("DEV_MODE", true),
		StrictValidation:  getEnvBool("STRICT_VALIDATION", false),
	}
	dbEnabled := getEnvBool("DB_ENABLED", config.DatasetSource == "postgres")

	app := &api.Application{Config: config}

	if dbEnabled {
		connStr := datastore.BuildDBConnStr(
			config.DatabasePassword,
			config.DatabaseUser,
			config.DatabaseName,
			config.SSLMode,
		)

		dbConn, dbErr := datastore.NewDB(config.DatabaseType, connStr)
		if dbErr != nil {
			log.Fatalf("Failed to connect to database: %v", dbErr)
		}
		defer dbConn.Close()

		// Run database migrations
		fmt.Println("Running database migrations...")
		if err := migrations.RunMigrations(dbConn); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		datasetRepo, datasetRepoErr := datastore.NewDatasetDatabase(dbConn)
		if datasetRepoErr != nil {
			log.Fatalf("Failed to create dataset repository: %v", datasetRepoErr)
		}
		app.DatasetRepo = datasetRepo
	}

	// Load the dataset once before serving; queries never see a
	// partially loaded handle.
	if err := app.LoadDataset(); err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	doc := app.Resolver().Document()
	fmt.Printf("Loaded dataset: %d charts from %s source\n", len(doc.Ranges), config.DatasetSource)

	// Create and start server
	mux := http.NewServeMux()

	fmt.Println("ISCC-NBS Color Name API Starting...")
	if err := app.Serve(mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

func getEnvSlice(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return strings.Split(value, ",")
}
