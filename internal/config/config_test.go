package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"APP_ENV":                "test",
		"APP_PORT":               "8080",
		"DB_USER":                "root",
		"DB_HOST":                "localhost",
		"DB_PORT":                "3306",
		"DB_NAME":                "hotel",
		"JWT_SECRET":             "secret",
		"ACCESS_TOKEN_TTL_MIN":   "15",
		"REFRESH_TOKEN_TTL_DAYS": "7",
		"BCRYPT_COST":            "10",
	} {
		t.Setenv(k, v)
	}
}

func TestLoadDefaultSurcharges(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GUEST_FEE_CENTS", "")
	t.Setenv("CITY_TAX_CENTS", "")

	cfg := Load()
	assert.Equal(t, 1500, cfg.GuestFeeCents)
	assert.Equal(t, 700, cfg.CityTaxCents)
}

func TestLoadClampsNegativeSurcharges(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GUEST_FEE_CENTS", "-1500")
	t.Setenv("CITY_TAX_CENTS", "-700")

	cfg := Load()
	assert.Equal(t, 0, cfg.GuestFeeCents, "a negative fee must clamp, not wrap when cast unsigned")
	assert.Equal(t, 0, cfg.CityTaxCents)
}
