package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yashrajoria/storefront/auth"
	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/config"
	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/database"
	"github.com/yashrajoria/storefront/logger"
	"github.com/yashrajoria/storefront/metrics"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/pkg/awsx"
	"github.com/yashrajoria/storefront/repository"
	"github.com/yashrajoria/storefront/routes"
	"github.com/yashrajoria/storefront/services"
	"github.com/yashrajoria/storefront/views"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const serviceName = "storefront-web"

// dependencies are the storage and remote adapters the router is built from.
type dependencies struct {
	auth      clients.AuthClient
	products  repository.ProductRepository
	profiles  repository.ProfileRepository
	orders    repository.OrderRepository
	carts     database.CartStorage
	sns       awsx.SNSPublisher
	presigner awsx.ImagePresigner
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// AWS is optional; without it the storefront runs against the managed backend alone.
	var awsCfg *sdkaws.Config
	if os.Getenv("AWS_REGION") != "" || awsx.CustomEndpoint() != "" {
		c, err := awsx.LoadAWSConfig(ctx)
		if err != nil {
			panic("failed to load aws config: " + err.Error())
		}
		awsCfg = &c
	}

	var secrets config.CredentialSource
	if awsCfg != nil && os.Getenv("AWS_USE_SECRETS") == "true" {
		secrets = awsx.NewSecretsClient(*awsCfg)
	}
	cfg, err := config.LoadConfig(ctx, secrets)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	var sink io.Writer
	if awsCfg != nil && cfg.CloudWatchEnabled {
		w, err := awsx.NewCloudWatchLogsWriter(ctx, *awsCfg, cfg.CloudWatchLogGroup, serviceName)
		if err != nil {
			panic("failed to set up cloudwatch logs: " + err.Error())
		}
		sink = w
	}
	log, err := logger.New(cfg.Env, sink)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	m := metrics.New()

	gw := clients.NewGatewayClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.RemoteTimeout)
	deps := dependencies{auth: clients.NewGoTrueClient(gw)}

	var db *gorm.DB
	switch cfg.DataBackend {
	case config.DataBackendPostgres:
		db, err = database.ConnectPostgres(cfg.PostgresDSN())
		if err != nil {
			log.Fatal("Failed to connect to Postgres", zap.Error(err))
		}
		deps.products = repository.NewGormProductRepository(db)
		deps.profiles = repository.NewGormProfileRepository(db)
		deps.orders = repository.NewGormOrderRepository(db)
	default:
		tables := clients.NewPostgRESTClient(gw)
		deps.products = repository.NewRESTProductRepository(tables)
		deps.profiles = repository.NewRESTProfileRepository(tables)
		deps.orders = repository.NewRESTOrderRepository(tables)
	}
	log.Info("Data backend selected", zap.String("backend", cfg.DataBackend))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		deps.carts = database.NewRedisCartRepository(rdb, cfg.CartTTL)
	} else {
		log.Warn("REDIS_URL not set, carts are kept in memory")
		deps.carts = database.NewMemoryCartRepository()
	}

	if awsCfg != nil {
		if cfg.OrderSNSTopicARN != "" || cfg.CatalogSNSTopicARN != "" {
			deps.sns = awsx.NewSNSClient(*awsCfg)
		}
		if cfg.ProductImageBucket != "" {
			deps.presigner = awsx.NewS3Presigner(*awsCfg, cfg.ProductImageBucket)
		}
	}

	authLimiter := middleware.NewRateLimiter(ctx, rate.Every(time.Minute/10), 5, 10*time.Minute)
	r, err := newRouter(cfg, deps, m, authLimiter, log)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Storefront starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down storefront...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}
	if db != nil {
		if err := database.ClosePostgres(db); err != nil {
			log.Error("Failed to close Postgres", zap.Error(err))
		}
	}
	log.Info("Storefront stopped gracefully")
}

// newRouter wires services, controllers and middleware onto a fresh engine.
func newRouter(cfg *config.Config, deps dependencies, m *metrics.Metrics, authLimiter *middleware.RateLimiter, log *zap.Logger) (*gin.Engine, error) {
	cartService := services.NewCartService(deps.carts, deps.products, log)
	authService := services.NewAuthService(deps.auth, deps.profiles, log)
	orderService := services.NewOrderService(deps.orders, log)
	checkoutService := services.NewCheckoutService(deps.carts, deps.orders, deps.products,
		services.EventPublisher{SNS: deps.sns, TopicArn: cfg.OrderSNSTopicARN}, m, log)
	catalogService := services.NewCatalogService(deps.products,
		services.ImageUploads{
			Presigner: deps.presigner,
			Bucket:    cfg.ProductImageBucket,
			BaseURL:   cfg.ProductImageURL,
			Expiry:    cfg.PresignExpiry,
		},
		services.EventPublisher{SNS: deps.sns, TopicArn: cfg.CatalogSNSTopicARN}, m, log)

	view := controllers.NewRenderer(cartService, log)
	h := routes.Controllers{
		Home:   controllers.NewHomeController(catalogService, cartService, view, log),
		Auth:   controllers.NewAuthController(authService, view, log),
		Cart:   controllers.NewCartController(cartService, checkoutService, catalogService, view, log),
		Orders: controllers.NewOrderController(orderService, view),
		Admin:  controllers.NewAdminController(catalogService, view, log),
	}

	tpl, err := views.Templates()
	if err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetHTMLTemplate(tpl)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Session(
		middleware.NewCookieStore(cfg.SessionSecret, cfg.SessionMaxAge, cfg.IsProduction()),
		auth.NewTokenVerifier(cfg.SupabaseJWTSecret),
		authService,
		log,
	))

	routes.RegisterRoutes(r, h, authLimiter, cfg.AllowedOrigins)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))
	return r, nil
}
