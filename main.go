package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/AKhanjyan/WhiteShopML/internal/auth"
	"github.com/AKhanjyan/WhiteShopML/internal/config"
	"github.com/AKhanjyan/WhiteShopML/internal/database"
	"github.com/AKhanjyan/WhiteShopML/internal/handlers"
	"github.com/AKhanjyan/WhiteShopML/internal/logger"
	"github.com/AKhanjyan/WhiteShopML/internal/middleware"
	"github.com/AKhanjyan/WhiteShopML/internal/services"
	"github.com/AKhanjyan/WhiteShopML/internal/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("config: ", err)
	}

	zlog, err := logger.Init(config.AppEnv.IsDevelopment(), config.AppEnv.LogLevel)
	if err != nil {
		log.Fatal("logger: ", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, config.AppEnv.MongoURI)
	if err != nil {
		zap.L().Fatal("[DB] connect failed", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			zap.L().Warn("[DB] disconnect failed", zap.Error(err))
		}
	}()

	db := client.Database(config.AppEnv.DBName)
	zap.L().Info("[DB] MongoDB connected", zap.String("database", db.Name()))

	if err := database.EnsureIndexes(ctx, db); err != nil {
		zap.L().Warn("[DB] index warning", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + config.AppEnv.Port,
		Handler:           setupRouter(db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("[HTTP] listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("[HTTP] server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("[HTTP] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("[HTTP] graceful shutdown failed", zap.Error(err))
	}
}

func setupRouter(db *mongo.Database) *gin.Engine {
	if !config.AppEnv.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := auth.NewTokens(config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL)
	hasher := services.NewBcryptHasher(config.AppEnv.BcryptCost)

	users := store.NewUsers(db)
	products := store.NewProducts(db)
	categories := store.NewCategories(db)

	usersSvc := services.NewUsersService(users, store.NewOrders(db), hasher)
	authSvc := services.NewAuthService(users, hasher, tokens)
	cartSvc := services.NewCartService(store.NewCart(db), products)
	catalogSvc := services.NewCatalogService(products, categories)
	adminSvc := services.NewAdminService(products, categories, store.NewBrands(db))

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger(), middleware.CORS(config.AppEnv.AllowedOrigins()))

	r.GET("/health", handlers.Health(database.NewPinger(db)))

	api := r.Group("/api/v1")

	api.POST("/auth/register", handlers.Register(authSvc))
	api.POST("/auth/login", handlers.Login(authSvc))

	api.GET("/products", handlers.GetProducts(catalogSvc))
	api.GET("/products/:slug", handlers.GetProductBySlug(catalogSvc))
	api.GET("/categories", handlers.GetCategories(catalogSvc))

	authed := api.Group("",
		middleware.Authenticate(tokens),
		middleware.ActiveAccount(users, config.AppEnv.RequestTimeout),
	)

	user := authed.Group("/users")
	{
		user.GET("/profile", handlers.GetProfile(usersSvc))
		user.PUT("/profile", handlers.UpdateProfile(usersSvc))
		user.PUT("/password", handlers.ChangePassword(usersSvc))
		user.GET("/addresses", handlers.GetUserAddresses(usersSvc))
		user.POST("/addresses", handlers.CreateUserAddress(usersSvc))
		user.PUT("/addresses/:addressId", handlers.UpdateUserAddress(usersSvc))
		user.DELETE("/addresses/:addressId", handlers.DeleteUserAddress(usersSvc))
		user.PATCH("/addresses/:addressId/default", handlers.SetDefaultUserAddress(usersSvc))
		user.GET("/dashboard", handlers.GetDashboard(usersSvc))
	}

	cart := authed.Group("/cart")
	{
		cart.GET("", handlers.GetCart(cartSvc))
		cart.POST("/items", handlers.AddCartItem(cartSvc))
		cart.PATCH("/items/:id", handlers.UpdateCartItem(cartSvc))
		cart.DELETE("/items/:id", handlers.DeleteCartItem(cartSvc))
	}

	admin := authed.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/products", handlers.GetAllProducts(adminSvc))
		admin.POST("/products", handlers.CreateProduct(adminSvc))
		admin.DELETE("/products/:id", handlers.DeleteProduct(adminSvc))

		admin.GET("/categories", handlers.GetAllCategories(adminSvc))
		admin.POST("/categories", handlers.CreateCategory(adminSvc))

		admin.GET("/brands", handlers.GetAllBrands(adminSvc))
		admin.POST("/brands", handlers.CreateBrand(adminSvc))
	}

	return r
}
