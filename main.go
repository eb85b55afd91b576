package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	bannerControllers "github.com/junaidrashid-git/marketplace-api/controllers/banner"
	"github.com/junaidrashid-git/marketplace-api/currency"
	"github.com/junaidrashid-git/marketplace-api/events"
	"github.com/junaidrashid-git/marketplace-api/models"
	"github.com/junaidrashid-git/marketplace-api/notifications"
	"github.com/junaidrashid-git/marketplace-api/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db, err := initDatabase()
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	if err := migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	bus := events.NewBus()
	defer bus.Close()

	hub := notifications.NewHub()
	rdb := newRedisClient()
	currencySvc := currency.NewService(db, rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := notifications.NewDispatcher(db, hub, bus)
	if err := dispatcher.Run(ctx); err != nil {
		log.Fatalf("Notification dispatcher failed to start: %v", err)
	}

	go bannerExpiryLoop(ctx, db)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-KEY"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		DB:       db,
		Bus:      bus,
		Hub:      hub,
		Currency: currencySvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func initDatabase() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			getenv("DB_NAME", "marketplace"),
			getenv("DB_PORT", "5432"),
			getenv("DB_SSLMODE", "disable"),
		)
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Currency{},
		&models.ProductAttribute{},
		&models.AttributeValue{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductVariantAttribute{},
		&models.Review{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
		&models.Banner{},
	)
}

func newRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unreachable at %s, running without cache: %v", addr, err)
		return nil
	}
	return rdb
}

// bannerExpiryLoop sweeps expired banners once an hour.
func bannerExpiryLoop(ctx context.Context, db *gorm.DB) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := bannerControllers.ExpireBanners(db, now)
			if err != nil {
				log.Printf("Banner expiry sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Deactivated %d expired banner(s)", n)
			}
		}
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
