package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	MAIN_ROUTES string
	APP_PORT    string
	JWTSecret   string

	DBDriver         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBMaster         string
	DBDefaultCompany string

	LogLevel  string
	LogFormat string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	SMTPHost             string
	SMTPPort             int
	SMTPUser             string
	SMTPPassword         string
	SMTPFrom             string
	ApprovalNotifyEmails []string

	ProcessorFolder   string
	ProcessorCompany  string
	ProcessorNotifyTo []string

	MaxBoxesPerArticle int

	allowedOrigins map[string]bool
)

// LoadConfig reads .env (when present), an optional config.yaml and the environment.
// Environment variables win over the file.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Warning: failed to read config file: %v", err)
		}
	}

	apply(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MAIN_ROUTES", "/api/v1")
	v.SetDefault("APP_PORT", "9000")
	v.SetDefault("JWT_SECRET", "outward_wms_key_secret")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_MASTER", "wms_master")
	v.SetDefault("DB_DEFAULT_COMPANY", "wms_demo")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_CACHE_TTL", "10m")

	v.SetDefault("MINIO_BUCKET", "outward-exports")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("APPROVAL_NOTIFY_EMAILS", "")
	v.SetDefault("PROCESSOR_FOLDER", "./manifests")
	v.SetDefault("PROCESSOR_COMPANY", "")
	v.SetDefault("PROCESSOR_NOTIFY_EMAILS", "")
	v.SetDefault("MAX_BOXES_PER_ARTICLE", 10000)
}

func apply(v *viper.Viper) {
	MAIN_ROUTES = v.GetString("MAIN_ROUTES")
	APP_PORT = v.GetString("APP_PORT")
	JWTSecret = v.GetString("JWT_SECRET")

	DBDriver = v.GetString("DB_DRIVER")
	DBHost = v.GetString("DB_HOST")
	DBPort = v.GetString("DB_PORT")
	DBUser = v.GetString("DB_USER")
	DBPassword = v.GetString("DB_PASSWORD")
	DBMaster = v.GetString("DB_MASTER")
	DBDefaultCompany = v.GetString("DB_DEFAULT_COMPANY")

	LogLevel = v.GetString("LOG_LEVEL")
	LogFormat = v.GetString("LOG_FORMAT")

	RedisAddr = v.GetString("REDIS_ADDR")
	RedisPassword = v.GetString("REDIS_PASSWORD")
	RedisDB = v.GetInt("REDIS_DB")
	CatalogCacheTTL = v.GetDuration("CATALOG_CACHE_TTL")

	MinioEndpoint = v.GetString("MINIO_ENDPOINT")
	MinioAccessKey = v.GetString("MINIO_ACCESS_KEY")
	MinioSecretKey = v.GetString("MINIO_SECRET_KEY")
	MinioBucket = v.GetString("MINIO_BUCKET")
	MinioUseSSL = v.GetBool("MINIO_USE_SSL")

	SMTPHost = v.GetString("SMTP_HOST")
	SMTPPort = v.GetInt("SMTP_PORT")
	SMTPUser = v.GetString("SMTP_USER")
	SMTPPassword = v.GetString("SMTP_PASSWORD")
	SMTPFrom = v.GetString("SMTP_FROM")
	ApprovalNotifyEmails = splitList(v.GetString("APPROVAL_NOTIFY_EMAILS"))

	ProcessorFolder = v.GetString("PROCESSOR_FOLDER")
	ProcessorCompany = v.GetString("PROCESSOR_COMPANY")
	if ProcessorCompany == "" {
		ProcessorCompany = DBDefaultCompany
	}
	ProcessorNotifyTo = splitList(v.GetString("PROCESSOR_NOTIFY_EMAILS"))

	MaxBoxesPerArticle = v.GetInt("MAX_BOXES_PER_ARTICLE")
	if MaxBoxesPerArticle <= 0 {
		MaxBoxesPerArticle = 10000
	}

	loadAllowedOrigins(v.GetString("ALLOWED_ORIGINS"))
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func loadAllowedOrigins(originsStr string) {
	allowedOrigins = make(map[string]bool)

	origins := splitList(originsStr)
	if len(origins) == 0 {
		allowedOrigins["http://127.0.0.1:3000"] = true
		return
	}
	for _, origin := range origins {
		allowedOrigins[origin] = true
	}
}

func SetupCORS(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		// Handle preflight request
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}
