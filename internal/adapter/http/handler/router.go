package handler

import (
	"rfid-wallet-backend/internal/adapter/http/middleware"
	"rfid-wallet-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Authority      ports.BalanceAuthority
	Wallets        ports.WalletRepository
	Transactions   ports.TransactionRepository
	Cards          ports.CardRepository
	Products       ports.ProductRepository
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL, Redis and NATS)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	api := r.Group("/api")

	paymentHandler := NewPaymentHandler(deps.Authority)
	api.POST("/topup", paymentHandler.Topup)
	api.POST("/payment", paymentHandler.Pay)

	cardHandler := NewCardHandler(deps.Cards, deps.Wallets)
	cards := api.Group("/cards")
	{
		cards.GET("", cardHandler.List)
		cards.POST("", cardHandler.Create)
		cards.GET("/:uid", cardHandler.Get)
		cards.PUT("/:uid", cardHandler.Update)
		cards.DELETE("/:uid", cardHandler.Delete)
	}

	walletHandler := NewWalletHandler(deps.Wallets)
	wallets := api.Group("/wallets")
	{
		wallets.GET("", walletHandler.List)
		wallets.GET("/:uid", walletHandler.Get)
	}

	productHandler := NewProductHandler(deps.Products)
	products := api.Group("/products")
	{
		products.GET("", productHandler.List)
		products.POST("", productHandler.Create)
		products.GET("/:id", productHandler.Get)
		products.PUT("/:id", productHandler.Update)
		products.DELETE("/:id", productHandler.Delete)
	}

	transactionHandler := NewTransactionHandler(deps.Transactions)
	transactions := api.Group("/transactions")
	{
		transactions.GET("", transactionHandler.List)
		transactions.GET("/:uid", transactionHandler.ListByUID)
	}

	return r
}
