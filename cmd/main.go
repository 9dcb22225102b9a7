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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lthoa462/homework/config"
	"github.com/lthoa462/homework/controllers"
	"github.com/lthoa462/homework/middleware"
	"github.com/lthoa462/homework/routes"
	"github.com/lthoa462/homework/services"
	"github.com/lthoa462/homework/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Cấu hình không hợp lệ: ", err)
	}

	db := config.InitDB(cfg)
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Không lấy được sql.DB: ", err)
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	limiter := utils.NewIPRateLimiter(cfg.LoginRatePerMinute)
	utils.StartCleanupJob(ctx, limiter, 10*time.Minute)

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		log.Println("SUPABASE_URL/SUPABASE_KEY chưa được cấu hình, upload ảnh sẽ lỗi")
	}
	uploader := utils.NewSupabaseUploader(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StorageBucket)

	userService := services.NewUserService(db)

	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatal("TRUSTED_PROXIES không hợp lệ: ", err)
	}

	//Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r = routes.SetupRouter(r, routes.Dependencies{
		Gate: middleware.Gate(middleware.GateConfig{
			Tokens:       tokens,
			Logger:       utils.NewStdAccessLogger(os.Stdout),
			SecureCookie: cfg.IsProduction(),
		}),
		Users: userService,

		Auth: controllers.NewAuthController(
			userService, tokens, limiter,
			int(tokens.TTL()/time.Second), cfg.IsProduction(),
		),
		Reports:   controllers.NewReportController(services.NewReportService(db)),
		Admin:     controllers.NewUserController(userService),
		Stats:     controllers.NewStatsController(services.NewOverviewService(db)),
		Uploads:   controllers.NewUploadController(uploader),
		Schedules: controllers.NewScheduleController(services.NewScheduleService(db)),
		Health:    controllers.NewHealthController(sqlDB),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("Server running at Port:" + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server lỗi: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("Đang tắt server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Tắt server lỗi: %v", err)
	}
}
