package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"nearest-hub-service/internal/adapters/cache"
	"nearest-hub-service/internal/adapters/geocode"
	"nearest-hub-service/internal/adapters/repositories"
	"nearest-hub-service/internal/api"
	pgdb "nearest-hub-service/internal/platform/db"
	"nearest-hub-service/internal/ports"
	"nearest-hub-service/internal/services"
)

// main is the application composition root.
// All process-wide shared state (pacer, caches, last-query memory) is
// built here once and passed into the adapters and services that use it.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := getEnv("PORT", "8080")
	driver := getEnv("DB_DRIVER", "sqlite")
	dbPath := getEnv("DB_PATH", "data/app.db")
	seedPath := getEnv("SEED_PATH", "data/seeds/hubs.json")
	nominatimURL := getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	redisAddr := os.Getenv("REDIS_ADDR")

	userAgent := os.Getenv("NOMINATIM_USER_AGENT")
	if strings.TrimSpace(userAgent) == "" {
		log.Fatal("NOMINATIM_USER_AGENT is required (Nominatim usage policy)")
	}

	var repo ports.HubRepository
	switch driver {
	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			log.Fatal("DATABASE_URL is required when DB_DRIVER=postgres")
		}
		db, err := pgdb.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		repo = repositories.NewSQLHubRepository(db)
	case "sqlite":
		db, err := openSqlite(dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		// Initialize schema and seed demo hubs on startup for local runs.
		if err := initAndSeed(db, seedPath); err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewSqliteHubRepository(db)
	default:
		log.Fatalf("unsupported DB_DRIVER %q (want postgres or sqlite)", driver)
	}

	// One pacer for the whole process: the provider's rate policy applies
	// per source, not per caller.
	pacer := geocode.NewPacer(geocode.MinRequestInterval)
	geocoder, err := geocode.NewNominatimGeocoder(nominatimURL, userAgent, pacer)
	if err != nil {
		log.Fatal(err)
	}

	var geocodeCache ports.GeocodeCache = cache.NewMemoryGeocodeCache(cache.GeocodeTTL)
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		geocodeCache = cache.NewRedisGeocodeCache(client, cache.GeocodeTTL)
		log.Printf("Using redis geocode cache addr=%s", redisAddr)
	}

	hubCache := cache.NewHubCache(repo, cache.HubListTTL)

	resolver := &services.LocationResolver{
		Cache:    geocodeCache,
		Repo:     hubCache,
		Geocoder: geocoder,
	}
	ranker := services.NewRanker(resolver, hubCache)

	router := api.NewRouter(ranker, hubCache)

	// Write timeout leaves room for a cold-cache ranking query (paced
	// geocode call plus the refine budget).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openSqlite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
