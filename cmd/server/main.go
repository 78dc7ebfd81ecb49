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

	"showwise/internal/auth"
	"showwise/internal/config"
	"showwise/internal/database"
	"showwise/internal/handlers"
	"showwise/internal/logger"
	"showwise/internal/metrics"
	"showwise/internal/notify"
	"showwise/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.Release)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zl.Sync()

	db, err := database.InitDB(cfg.DatabaseURL, cfg.Release, zl)
	if err != nil {
		zl.Fatal("Failed to initialize database", zap.Error(err))
	}

	metrics.Init()

	events := services.NewEventStore(db)
	accounts := services.NewAccountStore(db)
	emails := services.NewEmailService(services.NewMailer(cfg.Mail, zl.Named("mailer")), cfg.EventLocation)

	tracker, err := newTracker(cfg, db, zl)
	if err != nil {
		zl.Fatal("Failed to initialize notification record", zap.Error(err))
	}

	announcer := notify.NewFanout(zl.Named("fanout"), transports(cfg, emails, zl)...)

	scheduler := notify.NewScheduler(
		events,
		services.NewParticipantResolver(db),
		tracker,
		announcer,
		notify.WithLocation(cfg.EventLocation),
		notify.WithDayOfHour(cfg.DayOfHour),
		notify.WithFireTimeout(cfg.NotifyFireTimeout),
		notify.WithLogger(zl.Named("scheduler")),
	)

	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), metrics.GinMiddleware())
	router.SetTrustedProxies([]string{"127.0.0.1"})

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers.Handler{
		Events:    events,
		Accounts:  accounts,
		Scheduler: scheduler,
		Tracker:   tracker,
		Announcer: announcer,
		Mailer:    emails,
		Tokens:    auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry),
		Log:       zl.Named("http"),
	}
	h.Register(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Server starting", zap.String("port", cfg.Port), zap.String("notification_store", cfg.NotificationStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zl.Info("Shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("Server shutdown failed", zap.Error(err))
	}
	h.Wait()

	// Pending reminders live only in this process
	if lost := scheduler.Stop(); lost > 0 {
		zl.Warn("Pending reminders dropped at shutdown", zap.Int("count", lost))
	}
	zl.Info("Server stopped")
}

func newTracker(cfg *config.Config, db *gorm.DB, zl *zap.Logger) (notify.Tracker, error) {
	switch cfg.NotificationStore {
	case config.StoreDatabase:
		return services.NewGormTracker(db), nil
	case config.StoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rdb, err := services.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		return services.NewRedisTracker(rdb), nil
	default:
		zl.Info("Using in-memory notification record; deliveries are forgotten on restart")
		return notify.NewMemoryTracker(), nil
	}
}

func transports(cfg *config.Config, emails *services.EmailService, zl *zap.Logger) []notify.NamedAnnouncer {
	var out []notify.NamedAnnouncer
	if cfg.DiscordWebhookURL != "" {
		out = append(out, notify.NamedAnnouncer{Name: "discord", Announcer: services.NewDiscordAnnouncer(cfg.DiscordWebhookURL, nil)})
	}
	if rc := services.NewRocketChatAnnouncer(cfg.RocketChat, nil); rc.Configured() {
		out = append(out, notify.NamedAnnouncer{Name: "rocketchat", Announcer: rc})
	}
	if cfg.Mail.Provider != services.MailNoop {
		out = append(out, notify.NamedAnnouncer{Name: "email", Announcer: emails})
	}
	if len(out) == 0 {
		zl.Warn("No notification transport configured; reminders will be recorded without being posted")
	}
	return out
}
