package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers/cart"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/repository"
	"storefront_back_end/internal/repository/dynamo"
	"storefront_back_end/internal/repository/memory"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/search"
	"storefront_back_end/internal/services"
)

type stores struct {
	products services.ProductStore
	orders   services.OrderStore
	users    services.UserStore
	close    func()
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := database.NewAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, awsCfg)
	if err != nil {
		return err
	}
	defer st.close()

	redisClient, err := database.NewRedis(ctx, cfg.RedisHost, cfg.RedisPassword)
	if err != nil {
		// Le cache est optionnel : on continue sans
		log.Printf("⚠️ %v", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var (
		productCache services.ProductCache
		indexer      services.ProductIndexer
	)
	if redisClient != nil {
		productCache = cache.NewProductCache(redisClient)
	}

	esClient, err := database.NewElastic(cfg.Elastic)
	if err != nil {
		log.Printf("⚠️ %v", err)
	} else if esClient != nil {
		indexer = search.NewProductIndex(esClient, cfg.Elastic.Index)
	}

	keys := auth.NewKeySet(cfg.Cognito.JWKSURL, nil, cfg.Cognito.RefreshInterval)
	verifier := auth.NewVerifier(keys, cfg.Cognito.Issuer())

	cognitoClient := cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if cfg.Cognito.Region != "" {
			o.Region = cfg.Cognito.Region
		}
	})
	identity := auth.NewCognito(cognitoClient, cfg.Cognito.ClientID)

	catalog := services.NewCatalogService(st.products, productCache, indexer, cfg.ProductsCacheTTL)
	purchases := services.NewPurchaseService(st.products, st.orders, productCache)
	accounts := services.NewAccountService(identity, st.users)

	r := gin.Default()
	routes.RegisterRoutes(r, routes.Deps{
		Verifier:    verifier,
		Limiter:     cache.NewRateLimiter(redisClient),
		Products:    product.NewHandler(catalog),
		Cart:        cart.NewHandler(purchases),
		Users:       user.NewHandler(accounts),
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Serveur lancé sur le port %s (stockage %s)", cfg.Port, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("🛑 Arrêt du serveur...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.Config, awsCfg aws.Config) (stores, error) {
	switch cfg.StoreBackend {
	case config.BackendScylla:
		session, err := database.NewScyllaSession(cfg.Scylla)
		if err != nil {
			return stores{}, err
		}
		if err := database.EnsureSchema(ctx, session, cfg.Tables); err != nil {
			session.Close()
			return stores{}, err
		}
		return stores{
			products: repository.NewProductRepository(session, cfg.Tables.Products),
			orders:   repository.NewOrderRepository(session, cfg.Tables.Cart),
			users:    repository.NewUserRepository(session, cfg.Tables.Users),
			close:    session.Close,
		}, nil

	case config.BackendDynamoDB:
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
			}
		})
		log.Printf("✅ DynamoDB configuré (région %s)", awsCfg.Region)
		return stores{
			products: dynamo.NewProductStore(client, cfg.Tables.Products),
			orders:   dynamo.NewOrderStore(client, cfg.Tables.Cart),
			users:    dynamo.NewUserStore(client, cfg.Tables.Users),
			close:    func() {},
		}, nil

	default:
		log.Println("⚠️ Stockage en mémoire : les données sont perdues à l'arrêt")
		return stores{
			products: memory.NewProductStore(),
			orders:   memory.NewOrderStore(),
			users:    memory.NewUserStore(),
			close:    func() {},
		}, nil
	}
}
