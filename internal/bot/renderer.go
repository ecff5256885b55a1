package bot

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/parkraffle/internal/raffle"
)

// FormatRemaining renders a countdown like "2м 0с" or "45с".
func FormatRemaining(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	if total <= 0 {
		return "0с"
	}
	minutes := total / 60
	seconds := total % 60
	if minutes > 0 {
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	}
	return fmt.Sprintf("%dс", seconds)
}

// AnnouncementText renders the live raffle message.
func AnnouncementText(a raffle.Announcement) string {
	return fmt.Sprintf(
		"🎰 Розыгрыш места №%d\n⏱ Осталось: %s\n👥 Участников: %d\n\n🎯 Нажми кнопку, чтобы участвовать!",
		a.PlaceNumber, FormatRemaining(a.Remaining), a.Participants,
	)
}

// ButtonLabel renders the join button, with a participant badge once
// someone has joined.
func ButtonLabel(participants int) string {
	if participants > 0 {
		return fmt.Sprintf("🙋 Я хочу! (%d)", participants)
	}
	return "🙋 Я хочу!"
}

// WinnerText renders the congratulation message.
func WinnerText(placeNumber int, winnerName string) string {
	return fmt.Sprintf(
		"🎉 Поздравляем! 🎉\n\n🏆 Победитель розыгрыша места №%d:\n%s\n\n🚗 Место теперь за тобой!",
		placeNumber, winnerName,
	)
}

func joinKeyboard(a raffle.Announcement) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	btn := markup.Data(ButtonLabel(a.Participants), btnJoin.Unique, a.RaffleID)
	markup.Inline(markup.Row(btn))
	return markup
}
