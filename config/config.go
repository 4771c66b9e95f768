package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"

	MediaCloudinary = "cloudinary"
	MediaLocal      = "local"
)

// Config holds every setting the server needs. It is built once at startup.
type Config struct {
	Port string

	DBDriver      string
	DatabaseURL   string
	MongoDatabase string

	Secret       string
	TokenTTL     time.Duration
	BcryptCost   int
	CookieSecure bool

	AllowedOrigins []string

	MediaStrategy  string
	TempDir        string
	UploadDir      string
	MaxUploadBytes int64

	CloudinaryURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	TrackAuthors     bool
	EnforceOwnership bool
	ListLimit        int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("MONGO_DATABASE", "portfolio")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("MEDIA_STRATEGY", MediaCloudinary)
	v.SetDefault("TEMP_DIR", "tmp")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 5<<20)
	v.SetDefault("CLOUDINARY_FOLDER", "portfolio")
	v.SetDefault("TRACK_AUTHORS", false)
	v.SetDefault("ENFORCE_OWNERSHIP", false)
	v.SetDefault("LIST_LIMIT", 20)
}

// Load reads envFile when it exists, then the environment. Variables already
// set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// A missing .env is fine; the environment may carry everything.
		_ = godotenv.Load(envFile)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:                v.GetString("PORT"),
		DBDriver:            strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		MongoDatabase:       v.GetString("MONGO_DATABASE"),
		Secret:              v.GetString("SECRET"),
		TokenTTL:            v.GetDuration("TOKEN_TTL"),
		BcryptCost:          v.GetInt("BCRYPT_COST"),
		CookieSecure:        v.GetBool("COOKIE_SECURE"),
		AllowedOrigins:      splitList(v.GetString("ALLOWED_ORIGINS")),
		MediaStrategy:       strings.ToLower(v.GetString("MEDIA_STRATEGY")),
		TempDir:             v.GetString("TEMP_DIR"),
		UploadDir:           v.GetString("UPLOAD_DIR"),
		MaxUploadBytes:      v.GetInt64("MAX_UPLOAD_BYTES"),
		CloudinaryURL:       v.GetString("CLOUDINARY_URL"),
		CloudinaryCloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    v.GetString("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: v.GetString("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    v.GetString("CLOUDINARY_FOLDER"),
		TrackAuthors:        v.GetBool("TRACK_AUTHORS"),
		EnforceOwnership:    v.GetBool("ENFORCE_OWNERSHIP"),
		ListLimit:           v.GetInt("LIST_LIMIT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("config: SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL is required")
	}

	switch c.MediaStrategy {
	case MediaLocal:
	case MediaCloudinary:
		if c.CloudinaryURL == "" && (c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "") {
			return errors.New("config: cloudinary media needs CLOUDINARY_URL or CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("config: unknown MEDIA_STRATEGY %q", c.MediaStrategy)
	}

	if c.EnforceOwnership && !c.TrackAuthors {
		return errors.New("config: ENFORCE_OWNERSHIP requires TRACK_AUTHORS")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
