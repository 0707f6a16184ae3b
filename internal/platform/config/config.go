package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	DatabasePath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	DemoEmail    string
	DemoPassword string

	CheckoutBaseURL   string
	CheckoutKeyID     string `mapstructure:"CHECKOUT_KEY_ID"`
	CheckoutKeySecret string `mapstructure:"CHECKOUT_KEY_SECRET"`
	CheckoutTimeout   time.Duration

	RateLimit   string
	CORSOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SQLITE_PATH", "payswift.db")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "payswift-backend")
	viper.SetDefault("DEMO_EMAIL", "demo@payswift.app")
	viper.SetDefault("DEMO_PASSWORD", "payswift123")
	viper.SetDefault("CHECKOUT_BASE_URL", "https://api.razorpay.com")
	viper.SetDefault("CHECKOUT_KEY_ID", "")
	viper.SetDefault("CHECKOUT_KEY_SECRET", "")
	viper.SetDefault("CHECKOUT_TIMEOUT", "10s")
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("CORS_ORIGINS", "http://localhost,http://localhost:5173,capacitor://localhost,https://localhost")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.DatabasePath = viper.GetString("SQLITE_PATH")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.DemoEmail = viper.GetString("DEMO_EMAIL")
	cfg.DemoPassword = viper.GetString("DEMO_PASSWORD")

	cfg.CheckoutBaseURL = strings.TrimRight(viper.GetString("CHECKOUT_BASE_URL"), "/")
	cfg.CheckoutKeyID = viper.GetString("CHECKOUT_KEY_ID")
	cfg.CheckoutKeySecret = viper.GetString("CHECKOUT_KEY_SECRET")
	if cfg.CheckoutKeyID == "" || cfg.CheckoutKeySecret == "" {
		log.Println("Warning: CHECKOUT_KEY_ID/CHECKOUT_KEY_SECRET not set. Order creation will fail against the provider.")
	}

	checkoutTimeoutStr := viper.GetString("CHECKOUT_TIMEOUT")
	checkoutTimeout, err := time.ParseDuration(checkoutTimeoutStr)
	if err != nil {
		checkoutTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for CHECKOUT_TIMEOUT ('%s'). Defaulting to %s.\n", checkoutTimeoutStr, checkoutTimeout)
	}
	cfg.CheckoutTimeout = checkoutTimeout

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	for _, origin := range strings.Split(viper.GetString("CORS_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}
