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

	"learnx_backend/internals/configs"
	database "learnx_backend/internals/databases"
	helper "learnx_backend/internals/helpers"
	helperAuth "learnx_backend/internals/helpers/auth"
	"learnx_backend/internals/helpers/dbtime"
	helperOSS "learnx_backend/internals/helpers/oss"
	middlewares "learnx_backend/internals/middlewares"
	routes "learnx_backend/internals/route"
	"learnx_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	dbtime.SetLocation(configs.AppTimezone)

	verifier, err := helperAuth.NewVerifier(configs.IdentityProvider, configs.GoogleClientID, configs.JWTSecret)
	if err != nil {
		log.Fatalf("identity provider: %v", err)
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		BodyLimit:             25 * 1024 * 1024, // upload materi / tugas
		ErrorHandler:          helper.FiberErrorHandler,
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + migrate + warm-up
	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.WarmUpQueries()

	if configs.SeedOnStart {
		if err := seeds.RunAllSeeds(database.DB, configs.SeedDir); err != nil {
			log.Printf("[WARN] seeding failed: %v", err)
		}
	}

	// 🗂 object storage + reaper untuk file yatim
	blob := helperOSS.NewBlobServiceFromEnv("learnx")
	reaper, err := helperOSS.StartObjectReaper(database.DB, blob, configs.ReaperCronSchedule)
	if err != nil {
		log.Printf("[WARN] object reaper disabled: %v", err)
	} else {
		// token yang sudah sign-out cukup disimpan sampai exp-nya lewat
		_, err = reaper.AddFunc("@hourly", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if n, err := helperAuth.PurgeExpired(ctx, database.DB, time.Now()); err != nil {
				log.Printf("[REVOKE] purge error: %v", err)
			} else if n > 0 {
				log.Printf("[REVOKE] purged=%d", n)
			}
		})
		if err != nil {
			log.Printf("[WARN] revoked token purge disabled: %v", err)
		}
	}

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, verifier, blob)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 30 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", configs.Port)
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if reaper != nil {
		<-reaper.Stop().Done()
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
