package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"storefront_back_end/internal/config"
)

// =============================================
// SCYLLA DB
// =============================================

// createScyllaCluster crée la configuration de cluster pour le keyspace
func createScyllaCluster(cfg config.ScyllaConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	// Les transactions légères (IF ...) exigent un quorum pour la lecture Paxos
	cluster.Consistency = gocql.Quorum
	cluster.SerialConsistency = gocql.Serial
	cluster.Timeout = cfg.Timeout
	cluster.NumConns = cfg.NumConns

	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = 1 * time.Second
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	return cluster
}

// NewScyllaSession ouvre une session ScyllaDB sur le keyspace configuré
func NewScyllaSession(cfg config.ScyllaConfig) (*gocql.Session, error) {
	session, err := createScyllaCluster(cfg).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %w", cfg.Keyspace, err)
	}

	log.Printf("✅ Nouvelle session ScyllaDB pour keyspace '%s'", cfg.Keyspace)
	return session, nil
}

// =============================================
// REDIS
// =============================================

// NewRedis retourne nil sans erreur quand REDIS_HOST n'est pas configuré
func NewRedis(ctx context.Context, host, password string) (*redis.Client, error) {
	if host == "" {
		log.Println("⚠️ REDIS_HOST non configuré, cache et rate limiting désactivés")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         host,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("impossible de se connecter à Redis: %w", err)
	}

	log.Println("✅ Connecté à Redis")
	return client, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

// NewElastic retourne nil sans erreur quand ELASTIC_URL n'est pas configuré
func NewElastic(cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	if cfg.URL == "" {
		log.Println("⚠️ ELASTIC_URL non configuré, recherche en repli sur la base")
		return nil, nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur création client Elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("erreur connexion Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("erreur connexion Elasticsearch: %s", res.String())
	}

	log.Println("✅ Connecté à Elasticsearch")
	return client, nil
}

// =============================================
// AWS (DynamoDB, Cognito)
// =============================================

// NewAWSConfig charge la chaîne de credentials par défaut pour la région donnée
func NewAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("erreur chargement configuration AWS: %w", err)
	}
	return cfg, nil
}
