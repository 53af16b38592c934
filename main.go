package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"thesisflow_backend/internals/configs"
	database "thesisflow_backend/internals/databases"
	helperAuth "thesisflow_backend/internals/helpers/auth"
	"thesisflow_backend/internals/helpers/storage"
	middlewares "thesisflow_backend/internals/middlewares"
	"thesisflow_backend/internals/repository"
	"thesisflow_backend/internals/repository/gormstore"
	"thesisflow_backend/internals/repository/memstore"
	routes "thesisflow_backend/internals/route"
	routeDetails "thesisflow_backend/internals/route/details"
	"thesisflow_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		BodyLimit:               (configs.MaxDocumentMB + 1) << 20,
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// request id + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals(helperAuth.LocRequestID, id)
		start := time.Now()
		// aligned with statement_timeout on the DB side
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	store, health, closeStore := openStore()

	blobs, err := storage.NewFromEnv()
	if err != nil {
		log.Fatalf("[Storage] %v", err)
	}

	routes.SetupRoutes(app, routeDetails.NewServices(store, blobs), health)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")
	go func() {
		log.Printf("[HTTP] listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown, then close the store
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	closeStore()
}

// openStore picks the backend from STORE_DRIVER. The in-memory store is
// seeded so the API is usable without a database.
func openStore() (repository.Store, routes.HealthFunc, func()) {
	switch configs.StoreDriver {
	case "memory":
		store := memstore.New()
		if err := seeds.RunAllSeeds(context.Background(), store); err != nil {
			log.Fatalf("[SEED] %v", err)
		}
		log.Println("[STORE] using in-memory store")
		return store, nil, func() {}
	case "postgres", "":
		database.ConnectDB()
		database.TunePool()
		if err := database.AutoMigrate(); err != nil {
			log.Fatalf("[DB] %v", err)
		}
		database.WarmUpQueries()
		closeFn := func() {
			if sqlDB, err := database.DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return gormstore.New(database.DB), database.Ping, closeFn
	default:
		log.Fatalf("[STORE] unknown STORE_DRIVER %q", configs.StoreDriver)
		return nil, nil, nil
	}
}
