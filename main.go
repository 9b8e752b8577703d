package main

import (
	"context"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/identity-service/backend/internal/config"
	"github.com/identity-service/backend/internal/db"
	"github.com/identity-service/backend/internal/handler"
	"github.com/identity-service/backend/internal/registry"
	"github.com/identity-service/backend/internal/service"
	"github.com/identity-service/backend/internal/token"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	database := &db.Postgres{Pool: pool}
	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}

	redisDB, err := strconv.Atoi(cfg.Redis.DB)
	if err != nil {
		log.Fatalf("invalid REDIS_DB: %v", err)
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       redisDB,
	})
	defer redisClient.Close()

	refreshRegistry := registry.New(redisClient)
	if err := refreshRegistry.Ping(ctx); err != nil {
		log.Fatalf("redis: %v", err)
	}

	codec, err := token.NewCodec(cfg.JWT.SignerKey, cfg.JWT.Issuer)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	authService, err := service.NewAuthService(database, refreshRegistry, codec, cfg.JWT)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	userService := service.NewUserService(database)
	roleService := service.NewRoleService(database)

	if err := userService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)

	router := gin.Default()

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)

	router.POST("/users", userHandler.Create)
	router.POST("/auth/token", authHandler.Token)
	router.POST("/auth/introspect", authHandler.Introspect)
	router.POST("/auth/refresh", authHandler.Refresh)
	router.POST("/auth/logout", authHandler.Logout)

	authorized := router.Group("/", handler.AuthMiddleware(codec))
	authorized.GET("/users", userHandler.List)
	authorized.GET("/users/myInfo", userHandler.MyInfo)
	authorized.GET("/users/:userId", userHandler.Get)
	authorized.PUT("/users/:userId", userHandler.Update)
	authorized.DELETE("/users/:userId", userHandler.Delete)
	authorized.POST("/roles", roleHandler.Create)
	authorized.GET("/roles", roleHandler.List)
	authorized.DELETE("/roles/:role", roleHandler.Delete)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
