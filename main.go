package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"civictrack-be/config"
	"civictrack-be/controllers"
	"civictrack-be/middlewares"
	"civictrack-be/routes"
	"civictrack-be/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	var store storage.Storage
	if cfg.MongoURI != "" {
		db, err := config.ConnectDB(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		log.Println("MongoDB connection established successfully!")

		mongoStore := storage.NewMongoStorage(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to create MongoDB indexes: %v", err)
		}
		cancel()
		store = mongoStore
	} else {
		log.Println("MONGODB_URI not set, using in-memory storage")
		store = storage.NewMemStorage()
	}

	r := gin.Default()
	r.Use(cors.Default())

	var createMiddleware []gin.HandlerFunc
	if cfg.RedisAddr != "" {
		rdb, err := config.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis")
		createMiddleware = append(createMiddleware, middlewares.IssueRateLimiter(rdb, cfg.RedisQueuePrefix, cfg.IssueRateLimit))
	}

	issueController := controllers.NewIssueController(store)
	commentController := controllers.NewCommentController(store)
	authController := controllers.NewAuthController(store)

	routes.IssueRoutes(r, issueController, commentController, createMiddleware...)
	routes.CommentRoutes(r, commentController)
	routes.AuthRoutes(r, authController)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
