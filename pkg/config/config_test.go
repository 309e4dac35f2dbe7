package config

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestLoadFrom_Defaults(t *testing.T) {
	RegisterTestingT(t)

	cfg, err := LoadFrom(map[string]string{})

	Expect(err).To(BeNil())
	Expect(cfg.Environment).To(Equal(EnvDevelopment))
	Expect(cfg.Port).To(Equal("3000"))
	Expect(cfg.Database.Driver).To(Equal(DriverSQLite))
	Expect(cfg.Auth.Mode).To(Equal(AuthRequired))
	Expect(cfg.Auth.JWTTTL).To(Equal(24 * time.Hour))
	Expect(cfg.RateLimit.Enabled).To(BeTrue())
	Expect(cfg.AuthRequired()).To(BeTrue())
}

func TestLoadFrom_Overrides(t *testing.T) {
	RegisterTestingT(t)

	cfg, err := LoadFrom(map[string]string{
		"APP_ENV":           "production",
		"PORT":              "8080",
		"DB_DRIVER":         "mongodb",
		"DB_MONGO_URI":      "mongodb://mongo:27017",
		"JWT_SECRET":        "s3cret",
		"JWT_TTL":           "2h",
		"AUTH_MODE":         "optional",
		"REDIS_URL":         "redis://localhost:6379/0",
		"TELEMETRY_ENABLED": "true",
	})

	Expect(err).To(BeNil())
	Expect(cfg.Port).To(Equal("8080"))
	Expect(cfg.Database.Driver).To(Equal(DriverMongo))
	Expect(cfg.Database.MongoURI).To(Equal("mongodb://mongo:27017"))
	Expect(cfg.Auth.JWTTTL).To(Equal(2 * time.Hour))
	Expect(cfg.AuthRequired()).To(BeFalse())
	Expect(cfg.RateLimit.RedisURL).To(Equal("redis://localhost:6379/0"))
	Expect(cfg.Telemetry.Enabled).To(BeTrue())
	Expect(cfg.IsDevelopment()).To(BeFalse())
}

func TestLoadFrom_Invalid(t *testing.T) {
	RegisterTestingT(t)

	_, err := LoadFrom(map[string]string{"APP_ENV": "production"})
	Expect(err).To(MatchError(ContainSubstring("JWT_SECRET")))

	_, err = LoadFrom(map[string]string{"DB_DRIVER": "oracle"})
	Expect(err).To(MatchError(ContainSubstring("DB_DRIVER")))

	_, err = LoadFrom(map[string]string{"DB_DRIVER": "postgres"})
	Expect(err).To(MatchError(ContainSubstring("DB_POSTGRES_URL")))

	_, err = LoadFrom(map[string]string{"AUTH_MODE": "sometimes"})
	Expect(err).To(MatchError(ContainSubstring("AUTH_MODE")))
}

func TestGetDefaultConfig(t *testing.T) {
	RegisterTestingT(t)

	Expect(GetDefaultConfig().Validate()).To(Succeed())
}
