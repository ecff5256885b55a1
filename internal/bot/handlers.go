package bot

import (
	"context"
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/parkraffle/internal/raffle"
)

// btnJoin is the single interactive affordance on a raffle announcement.
// Its callback data carries the raffle id.
var btnJoin = tele.Btn{Unique: "join"}

func (b *Bot) RegisterHandlers() {
	b.bot.Use(b.ChatAccess())
	b.bot.Handle(tele.OnText, b.handleText)
	b.bot.Handle(&btnJoin, b.handleJoin)
}

// handleText runs every group message through the classifier and starts a
// raffle when a free-spot announcement is detected.
func (b *Bot) handleText(c tele.Context) error {
	text := c.Text()
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}

	isFreeSpot, place := b.classifier.Classify(context.Background(), text)
	if !isFreeSpot {
		return nil
	}

	b.logger.Info("free spot announcement detected",
		"chat_id", c.Chat().ID, "place", place)

	if _, err := b.raffles.Create(c.Chat().ID, c.Message().ID, place); err != nil {
		b.logger.Error("failed to create raffle",
			"chat_id", c.Chat().ID, "place", place, "error", err)
	}
	return nil
}

// handleJoin registers the click on the "I want it" button. User-facing
// rejections come back as callback alerts; everything else is silent.
func (b *Bot) handleJoin(c tele.Context) error {
	raffleID := c.Data()
	userID := c.Sender().ID

	err := b.raffles.Join(raffleID, userID)
	switch {
	case errors.Is(err, raffle.ErrRaffleNotFound):
		return c.Respond(&tele.CallbackResponse{Text: MsgRaffleEnded, ShowAlert: true})
	case errors.Is(err, raffle.ErrAlreadyJoined):
		return c.Respond(&tele.CallbackResponse{Text: MsgAlreadyJoined, ShowAlert: true})
	case errors.Is(err, raffle.ErrAlreadyWon):
		return c.Respond(&tele.CallbackResponse{Text: MsgAlreadyWon, ShowAlert: true})
	case err != nil:
		b.logger.Error("failed to register participant",
			"raffle_id", raffleID, "user_id", userID, "error", err)
		return c.Respond(&tele.CallbackResponse{Text: MsgInternalError, ShowAlert: true})
	}

	b.logger.Info("participant joined",
		"raffle_id", raffleID,
		"user_id", userID,
		"username", c.Sender().Username,
	)
	return c.Respond(&tele.CallbackResponse{Text: MsgJoined})
}
