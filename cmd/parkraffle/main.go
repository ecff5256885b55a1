package main

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"nuclight.org/parkraffle/internal/bot"
	"nuclight.org/parkraffle/internal/classify"
	"nuclight.org/parkraffle/internal/config"
	"nuclight.org/parkraffle/internal/logger"
	"nuclight.org/parkraffle/internal/raffle"
	"nuclight.org/parkraffle/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg := logger.NewLogger()
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			log.Fatalf("Failed to init sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
		lg = logger.NewLoggerWithSentry()
	}

	lg.Info("config loaded",
		"db_path", cfg.DBPath,
		"allowed_chats", len(cfg.AllowedChatIDs),
		"raffle_timer", cfg.RaffleTimer,
		"capacity", cfg.MaxActiveRaffles,
	)

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	lg.Info("database initialized")

	history := storage.NewHistoryRepository(db)
	store := raffle.NewStore()

	llm := classify.NewGigaChat(cfg.GigaChatAuthKey, !cfg.GigaChatVerifySSL)
	classifier := classify.New(llm, lg)

	b, err := bot.New(bot.Config{
		Token:          cfg.TelegramToken,
		OwnerUserID:    cfg.OwnerUserID,
		AllowedChatIDs: cfg.AllowedChatIDs,
		Countdown:      cfg.RaffleTimer,
		RefreshEvery:   cfg.RaffleUpdate,
		Capacity:       cfg.MaxActiveRaffles,
	}, store, classifier, history, lg)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	b.RegisterCommands()
	b.RegisterHandlers()

	b.Start()
}
