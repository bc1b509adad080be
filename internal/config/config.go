package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backends de stockage supportés
const (
	BackendScylla   = "scylla"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config est construite une seule fois au démarrage puis passée aux constructeurs
type Config struct {
	Port         string
	StoreBackend string
	CORSOrigins  []string

	Tables TablesConfig
	Scylla ScyllaConfig

	AWSRegion        string
	DynamoDBEndpoint string

	Cognito CognitoConfig

	RedisHost        string
	RedisPassword    string
	ProductsCacheTTL time.Duration

	Elastic ElasticConfig
}

type TablesConfig struct {
	Products string
	Cart     string
	Users    string
}

type ScyllaConfig struct {
	Hosts    []string
	Keyspace string
	Username string
	Password string
	Timeout  time.Duration
	NumConns int
}

type CognitoConfig struct {
	Region          string
	PoolID          string
	ClientID        string
	JWKSURL         string
	RefreshInterval time.Duration
}

// Issuer retourne l'émetteur attendu des jetons du pool
func (c CognitoConfig) Issuer() string {
	if c.Region == "" || c.PoolID == "" {
		return ""
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.PoolID)
}

type ElasticConfig struct {
	URL      string
	Username string
	Password string
	Index    string
}

// Load charge le fichier .env s'il existe puis lit l'environnement
func Load() (Config, error) {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	return FromEnv()
}

// FromEnv construit la configuration à partir des variables d'environnement
func FromEnv() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendScylla)),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		Tables: TablesConfig{
			Products: getEnv("PRODUCTS_TABLE", "products"),
			Cart:     getEnv("CART_TABLE", "cart"),
			Users:    getEnv("USERS_TABLE", "users"),
		},
		Scylla: ScyllaConfig{
			Hosts:    splitList(getEnv("SCYLLA_HOSTS", "127.0.0.1")),
			Keyspace: getEnv("SCYLLA_KEYSPACE", "ks_store"),
			Username: os.Getenv("SCYLLA_USERNAME"),
			Password: os.Getenv("SCYLLA_PASSWORD"),
			Timeout:  5 * time.Second,
			NumConns: 20,
		},
		AWSRegion:        getEnv("AWS_REGION", "us-west-1"),
		DynamoDBEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		Cognito: CognitoConfig{
			Region:   os.Getenv("COGNITO_REGION"),
			PoolID:   os.Getenv("COGNITO_POOL_ID"),
			ClientID: os.Getenv("USER_CLIENT_ID"),
			JWKSURL:  os.Getenv("JWKS_URL"),
		},
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			Username: os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
			Index:    getEnv("ELASTIC_INDEX", "products"),
		},
	}

	var err error
	if cfg.Cognito.RefreshInterval, err = getDuration("JWKS_REFRESH_INTERVAL", 0); err != nil {
		return Config{}, err
	}
	if cfg.ProductsCacheTTL, err = getDuration("PRODUCTS_CACHE_TTL", 10*time.Minute); err != nil {
		return Config{}, err
	}

	if cfg.Cognito.Region == "" {
		cfg.Cognito.Region = cfg.AWSRegion
	}
	if cfg.Cognito.JWKSURL == "" && cfg.Cognito.PoolID != "" {
		cfg.Cognito.JWKSURL = cfg.Cognito.Issuer() + "/.well-known/jwks.json"
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendScylla, BackendDynamoDB, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND inconnu: %q", c.StoreBackend)
	}
	if c.Cognito.JWKSURL == "" {
		return fmt.Errorf("COGNITO_POOL_ID ou JWKS_URL doit être défini")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s invalide: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
