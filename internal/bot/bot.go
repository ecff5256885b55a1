package bot

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/parkraffle/internal/classify"
	"nuclight.org/parkraffle/internal/raffle"
)

// WinHistory is the journal of finished raffles consumed by /history and
// fed by the raffle engine.
type WinHistory interface {
	raffle.Recorder
	WinsOn(day time.Time) ([]raffle.Outcome, error)
}

type Config struct {
	Token          string
	OwnerUserID    int64
	AllowedChatIDs []int64

	Countdown    time.Duration
	RefreshEvery time.Duration
	Capacity     int
}

type Bot struct {
	bot        *tele.Bot
	raffles    *raffle.Service
	classifier *classify.Classifier
	history    WinHistory
	access     *AccessPolicy
	logger     *slog.Logger
}

func New(cfg Config, store *raffle.Store, classifier *classify.Classifier, history WinHistory, logger *slog.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	tb, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	gw := &telegramGateway{bot: tb}
	raffles := raffle.NewService(store, gw, history, logger, raffle.Options{
		Countdown:    cfg.Countdown,
		RefreshEvery: cfg.RefreshEvery,
		Capacity:     cfg.Capacity,
	})

	return &Bot{
		bot:        tb,
		raffles:    raffles,
		classifier: classifier,
		history:    history,
		access:     NewAccessPolicy(cfg.OwnerUserID, cfg.AllowedChatIDs),
		logger:     logger,
	}, nil
}

func (b *Bot) Start() {
	b.logger.Info("bot started")
	b.bot.Start()
}

func (b *Bot) Stop() {
	b.bot.Stop()
}

func (b *Bot) Bot() *tele.Bot {
	return b.bot
}

func (b *Bot) RaffleService() *raffle.Service {
	return b.raffles
}
