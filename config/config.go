package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// Places cache
const PLACE_CACHE_TTL = 6 * time.Hour

// Upstream restaurant API
const PLACES_API_ENDPOINT_BASE_V1 = "https://api.munch.app/v1"
const PLACES_API_TIMEOUT = 10 * time.Second

// Paging and hours evaluation defaults
const DEFAULT_PAGE_SIZE = 20
const DEFAULT_OPENING_WINDOW_MINUTES = 30
const DEFAULT_CLOSING_WINDOW_MINUTES = 30
const DEFAULT_TIMEZONE = "Asia/Singapore"

// Places refresher config
const PLACES_REFRESHER_SCHEDULE_MINUTES = 60

// Feed sessions expire after this much inactivity
const FEED_SESSION_TTL = 15 * time.Minute

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const PLACES_FIXTURE_RESOURCE = "places_fixture.json"

// Config holds the settings read from the environment.
type Config struct {
	Env  string
	Port string

	PlacesAPIBaseURL string
	PlacesAPIKey     string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	PageSize              int
	OpeningWindowMinutes  int
	ClosingWindowMinutes  int
	Timezone              string
	RefresherInterval     time.Duration
	RefresherCollectionID []string
	FeedSessionTTL        time.Duration
	FixturePath           string
}

// LoadEnv loads a .env file if one exists. A missing file is not an error,
// the variables may already be set in the environment.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load reads the configuration, falling back to the defaults above.
func Load() *Config {
	LoadEnv()

	return &Config{
		Env:                   GetEnv("APP_ENV", "dev"),
		Port:                  GetEnv("HTTP_PORT", "8080"),
		PlacesAPIBaseURL:      GetEnv("PLACES_API_BASE_URL", PLACES_API_ENDPOINT_BASE_V1),
		PlacesAPIKey:          GetEnv("PLACES_API_KEY", ""),
		RedisAddress:          GetEnv("REDIS_ADDRESS", REDIS_DB_ADDRESS),
		RedisPassword:         GetEnv("REDIS_PASSWORD", REDIS_DB_PASSWORD),
		RedisDB:               GetEnvInt("REDIS_DB", REDIS_DB),
		PageSize:              GetEnvInt("PAGE_SIZE", DEFAULT_PAGE_SIZE),
		OpeningWindowMinutes:  GetEnvInt("OPENING_WINDOW_MINUTES", DEFAULT_OPENING_WINDOW_MINUTES),
		ClosingWindowMinutes:  GetEnvInt("CLOSING_WINDOW_MINUTES", DEFAULT_CLOSING_WINDOW_MINUTES),
		Timezone:              GetEnv("TIMEZONE", DEFAULT_TIMEZONE),
		RefresherInterval:     time.Duration(GetEnvInt("REFRESHER_INTERVAL_MINUTES", PLACES_REFRESHER_SCHEDULE_MINUTES)) * time.Minute,
		RefresherCollectionID: GetEnvList("REFRESHER_COLLECTION_IDS"),
		FeedSessionTTL:        FEED_SESSION_TTL,
		FixturePath:           GetEnv("FIXTURE_PATH", GetResourcePath(PLACES_FIXTURE_RESOURCE)),
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetEnvList splits a comma separated variable, dropping empty entries.
func GetEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BaseDir returns the absolute path of the project root directory
// BaseDir is PROJECT_ROOT when set, otherwise the closest parent of the
// working directory holding go.mod, so package tests find resources/.
func BaseDir() string {
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	for dir := wd; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		if filepath.Dir(dir) == dir {
			return wd
		}
	}
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}
