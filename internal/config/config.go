package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramToken  string
	OwnerUserID    int64
	AllowedChatIDs []int64

	RaffleTimer      time.Duration
	RaffleUpdate     time.Duration
	MaxActiveRaffles int

	DBPath string

	GigaChatAuthKey   string
	GigaChatVerifySSL bool

	SentryDSN string
}

func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	ownerStr := os.Getenv("OWNER_USER_ID")
	if ownerStr == "" {
		return nil, fmt.Errorf("OWNER_USER_ID is required")
	}
	ownerID, err := strconv.ParseInt(ownerStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("OWNER_USER_ID must be a number: %w", err)
	}

	chatsStr := os.Getenv("ALLOWED_CHAT_IDS")
	if chatsStr == "" {
		return nil, fmt.Errorf("ALLOWED_CHAT_IDS is required")
	}
	chatIDs, err := parseChatIDs(chatsStr)
	if err != nil {
		return nil, err
	}

	raffleTimer, err := secondsEnv("RAFFLE_TIMER_SECONDS", 120)
	if err != nil {
		return nil, err
	}

	raffleUpdate, err := secondsEnv("RAFFLE_UPDATE_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	maxRaffles, err := intEnv("MAX_ACTIVE_RAFFLES", 5)
	if err != nil {
		return nil, err
	}

	authKey := os.Getenv("GIGACHAT_CLIENT_SECRET")
	if authKey == "" {
		return nil, fmt.Errorf("GIGACHAT_CLIENT_SECRET is required")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/parkraffle.db"
	}

	return &Config{
		TelegramToken:     token,
		OwnerUserID:       ownerID,
		AllowedChatIDs:    chatIDs,
		RaffleTimer:       raffleTimer,
		RaffleUpdate:      raffleUpdate,
		MaxActiveRaffles:  maxRaffles,
		DBPath:            dbPath,
		GigaChatAuthKey:   authKey,
		GigaChatVerifySSL: strings.EqualFold(os.Getenv("GIGACHAT_VERIFY_SSL"), "true"),
		SentryDSN:         os.Getenv("SENTRY_DSN"),
	}, nil
}

func parseChatIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ALLOWED_CHAT_IDS entry %q must be a number: %w", part, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("ALLOWED_CHAT_IDS must contain at least one chat id")
	}
	return ids, nil
}

func intEnv(name string, fallback int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number", name)
	}
	return v, nil
}

func secondsEnv(name string, fallback int) (time.Duration, error) {
	v, err := intEnv(name, fallback)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Second, nil
}
