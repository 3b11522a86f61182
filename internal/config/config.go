package config // loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable: strings for identifiers and secrets, ints
// for durations, costs and fees.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	GuestFeeCents  int    // per-guest service fee added to every reservation
	CityTaxCents   int    // flat city tax added to every reservation
}

// Load reads configuration from environment variables. Required
// variables are enforced by must(); missing values exit with a fatal
// log message. The pricing surcharges are optional and default to the
// booking package's standard values.
func Load() Config {
	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		GuestFeeCents:  envInt("GUEST_FEE_CENTS", 1500),
		CityTaxCents:   envInt("CITY_TAX_CENTS", 700),
	}
	// Surcharges become unsigned cents downstream; negative values are
	// clamped to zero rather than allowed to wrap.
	if cfg.GuestFeeCents < 0 {
		cfg.GuestFeeCents = 0
	}
	if cfg.CityTaxCents < 0 {
		cfg.CityTaxCents = 0
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
