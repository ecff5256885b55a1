package bot

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

// RegisterCommands sets up the owner command surface.
func (b *Bot) RegisterCommands() {
	group := b.bot.Group()
	group.Use(b.ChatAccess())
	group.Use(b.OwnerOnly())
	group.Use(b.HandleErrors())

	group.Handle("/status", b.handleStatus)
	group.Handle("/history", b.handleHistory)
	group.Handle("/help", b.handleHelp)
}

// handleStatus lists the tracked raffles with counts and remaining time.
func (b *Bot) handleStatus(c tele.Context) error {
	b.logger.Info("command /status",
		"user_id", c.Sender().ID, "chat_id", c.Chat().ID)

	statuses := b.raffles.Snapshot()
	if len(statuses) == 0 {
		return c.Send(MsgNoActiveRaffles)
	}

	var sb strings.Builder
	sb.WriteString(MsgStatusHeader)
	for _, st := range statuses {
		if st.Finished {
			sb.WriteString(fmt.Sprintf("\n  Место №%d: завершен, участников: %d",
				st.PlaceNumber, st.Participants))
			continue
		}
		sb.WriteString(fmt.Sprintf("\n  Место №%d: участников: %d, осталось %s",
			st.PlaceNumber, st.Participants, FormatRemaining(b.raffles.Remaining(st))))
	}
	return c.Send(sb.String())
}

// handleHistory lists today's recorded wins from the journal.
func (b *Bot) handleHistory(c tele.Context) error {
	b.logger.Info("command /history",
		"user_id", c.Sender().ID, "chat_id", c.Chat().ID)

	wins, err := b.history.WinsOn(time.Now())
	if err != nil {
		return WrapUserError(MsgFailedGetHistory, err)
	}
	if len(wins) == 0 {
		return c.Send(MsgNoWinsToday)
	}

	var sb strings.Builder
	sb.WriteString(MsgHistoryHeader)
	for _, w := range wins {
		sb.WriteString(fmt.Sprintf("\n  %s — место №%d, участников: %d",
			w.WinnerName, w.PlaceNumber, w.Participants))
	}
	return c.Send(sb.String())
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(MsgHelp)
}
