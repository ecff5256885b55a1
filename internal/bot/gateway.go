package bot

import (
	tele "gopkg.in/telebot.v4"

	"nuclight.org/parkraffle/internal/raffle"
)

// telegramGateway implements raffle.Gateway over telebot. All errors go
// back to the engine, which logs and carries on: a missed edit or even a
// missed post never aborts a raffle.
type telegramGateway struct {
	bot *tele.Bot
}

func (g *telegramGateway) PostAnnouncement(chatID int64, replyToID int, a raffle.Announcement) (raffle.MessageRef, error) {
	src := &tele.Message{ID: replyToID, Chat: &tele.Chat{ID: chatID}}
	msg, err := g.bot.Reply(src, AnnouncementText(a), joinKeyboard(a))
	if err != nil {
		return raffle.MessageRef{}, err
	}
	return raffle.MessageRef{ChatID: chatID, MessageID: msg.ID}, nil
}

func (g *telegramGateway) UpdateAnnouncement(ref raffle.MessageRef, a raffle.Announcement) error {
	_, err := g.bot.Edit(editable(ref), AnnouncementText(a), joinKeyboard(a))
	return err
}

func (g *telegramGateway) UpdateJoinButton(ref raffle.MessageRef, a raffle.Announcement) error {
	_, err := g.bot.EditReplyMarkup(editable(ref), joinKeyboard(a))
	return err
}

func (g *telegramGateway) ResolveDisplayName(chatID, userID int64) (string, error) {
	member, err := g.bot.ChatMemberOf(&tele.Chat{ID: chatID}, &tele.User{ID: userID})
	if err != nil {
		return "", err
	}
	u := member.User
	if u == nil {
		return "", nil
	}
	if u.Username != "" {
		return "@" + u.Username, nil
	}
	return u.FirstName, nil
}

func (g *telegramGateway) AnnounceWinner(chatID int64, placeNumber int, winnerName string) error {
	_, err := g.bot.Send(&tele.Chat{ID: chatID}, WinnerText(placeNumber, winnerName))
	return err
}

func editable(ref raffle.MessageRef) *tele.Message {
	return &tele.Message{ID: ref.MessageID, Chat: &tele.Chat{ID: ref.ChatID}}
}
