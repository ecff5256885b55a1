package bot

import (
	tele "gopkg.in/telebot.v4"
)

// AccessPolicy decides which chats the bot works in and who may run the
// owner commands. Everything behind it has already passed this gate.
type AccessPolicy struct {
	ownerID      int64
	allowedChats map[int64]struct{}
}

func NewAccessPolicy(ownerID int64, allowedChatIDs []int64) *AccessPolicy {
	chats := make(map[int64]struct{}, len(allowedChatIDs))
	for _, id := range allowedChatIDs {
		chats[id] = struct{}{}
	}
	return &AccessPolicy{ownerID: ownerID, allowedChats: chats}
}

// AllowChat reports whether the bot works in the given chat. Private chats
// are always rejected; group chats must be allow-listed.
func (p *AccessPolicy) AllowChat(chatID int64, chatType tele.ChatType) (bool, string) {
	if chatType == tele.ChatPrivate {
		return false, "private chats are not served"
	}
	if _, ok := p.allowedChats[chatID]; !ok {
		return false, "chat is not allow-listed"
	}
	return true, ""
}

func (p *AccessPolicy) IsOwner(userID int64) bool {
	return userID == p.ownerID
}

// ChatAccess drops every update from private or non-allow-listed chats.
func (b *Bot) ChatAccess() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil {
				return nil
			}
			if ok, reason := b.access.AllowChat(chat.ID, chat.Type); !ok {
				b.logger.Warn("rejected update",
					"chat_id", chat.ID, "chat_type", chat.Type, "reason", reason)
				return nil
			}
			return next(c)
		}
	}
}

// OwnerOnly silently ignores commands from anyone but the bot owner.
func (b *Bot) OwnerOnly() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !b.access.IsOwner(c.Sender().ID) {
				b.logger.Warn("rejected owner command",
					"user_id", senderID(c), "chat_id", c.Chat().ID)
				return nil
			}
			return next(c)
		}
	}
}

// HandleErrors logs handler failures and replies with the user-facing
// message when there is one.
func (b *Bot) HandleErrors() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			if ShouldLog(err) {
				b.logger.Error("command failed", "error", GetLogError(err))
			}
			return c.Send(GetUserMessage(err))
		}
	}
}

func senderID(c tele.Context) int64 {
	if c.Sender() == nil {
		return 0
	}
	return c.Sender().ID
}
