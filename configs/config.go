package config

import "os"

type S3 struct {
	AccessKey  string
	SecretKey  string
	Region     string
	BucketName string
}

type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	S3                 S3
	SecretKey          string
	CookieName         string
	SessionBaseDir     string
	MediaDir           string
	Headless           bool
}

func LoadConfig() *Config {
	return &Config{
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/callback"),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		S3: S3{
			AccessKey:  getEnv("AWS_S3_ACCESS_KEY", ""),
			SecretKey:  getEnv("AWS_S3_SECRET_KEY", ""),
			Region:     getEnv("AWS_S3_REGION", ""),
			BucketName: getEnv("AWS_S3_BUCKET", ""),
		},
		SecretKey:      getEnv("SECRET_KEY", ""),
		CookieName:     getEnv("COOKIE_NAME", "groth_session"),
		SessionBaseDir: getEnv("SESSION_BASE_DIR", "./sessions"),
		MediaDir:       getEnv("MEDIA_DIR", "./media"),
		Headless:       getEnv("HEADLESS", "true") != "false",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
