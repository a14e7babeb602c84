package config

import "os"

type AppConfig struct {
	URL  string // public site URL, used for checkout return links and CORS
	Port string
}

type DatabaseConfig struct {
	URL string
}

type SumUpConfig struct {
	APIKey       string
	MerchantCode string
	BaseURL      string
}

type EmailConfig struct {
	APIKey      string
	FromAddress string
	FromName    string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type CloudinaryConfig struct {
	APISecret string
}

type AdminConfig struct {
	Password      string // bcrypt hash, or plaintext for local setups
	SessionSecret string
}

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	SumUp      SumUpConfig
	Email      EmailConfig
	R2         R2Config
	Cloudinary CloudinaryConfig
	Admin      AdminConfig
}

func LoadConfig() *Config {
	cfg := &Config{}

	cfg.App.URL = getenv("APP_URL", "http://localhost:3000")
	cfg.App.Port = getenv("PORT", "8080")

	cfg.Database.URL = os.Getenv("DATABASE_URL")

	// both spellings have been used in deployments
	cfg.SumUp.APIKey = firstenv("SUMUP_API_KEY", "SUM_UP_API_KEY")
	cfg.SumUp.MerchantCode = firstenv("SUMUP_MERCHANT_CODE", "MERCHANT_CODE")
	cfg.SumUp.BaseURL = os.Getenv("SUMUP_BASE_URL")

	cfg.Email.APIKey = os.Getenv("RESEND_API_KEY")
	cfg.Email.FromAddress = os.Getenv("EMAIL_FROM_ADDRESS")
	cfg.Email.FromName = getenv("EMAIL_FROM_NAME", "Clontarf Paradise Golf")

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	cfg.Cloudinary.APISecret = os.Getenv("CLOUDINARY_API_SECRET")

	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")
	cfg.Admin.SessionSecret = os.Getenv("ADMIN_SESSION_SECRET")

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstenv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
