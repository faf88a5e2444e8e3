package config

import "os"

type Config struct {
	Port          string
	Env           string
	JWTSecret     string
	PostgresURL   string
	MongoURI      string
	MongoDatabase string

	FirebaseCredentialsPath string

	UploadDir     string
	PublicBaseURL string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		PostgresURL:             getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "socio"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		UploadDir:               getEnv("UPLOAD_DIR", "./public/profile_pics"),
		PublicBaseURL:           getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
