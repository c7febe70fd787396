package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/minhhua/figure-store/internal/auth"
	"github.com/minhhua/figure-store/internal/config"
	"github.com/minhhua/figure-store/internal/database"
	"github.com/minhhua/figure-store/internal/handler"
	"github.com/minhhua/figure-store/internal/middleware"
	"github.com/minhhua/figure-store/internal/queue"
	"github.com/minhhua/figure-store/internal/repository"
	"github.com/minhhua/figure-store/internal/router"
	"github.com/minhhua/figure-store/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; gates fail open

	issuer := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute)

	customers := repository.NewCustomerRepo(db)
	orders := repository.NewOrderRepo(db)
	products := repository.NewProductRepo(db)
	categories := repository.NewCategoryRepo(db)

	authHandler := handler.NewAuthHandler(customers, issuer, cfg.BcryptCost)
	customerHandler := handler.NewCustomerHandler(customers, cfg.BcryptCost)
	orderHandler := handler.NewOrderHandler(orders, customers, products, service.PublishOrderPlaced)
	productHandler := &handler.ProductHandler{Products: products}
	categoryHandler := &handler.CategoryHandler{Categories: categories}

	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, limiter)
	router.RegisterCustomers(e, customerHandler, issuer)
	router.RegisterOrders(e, orderHandler, issuer)
	router.RegisterCatalog(e, productHandler, categoryHandler, issuer, cache)

	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
