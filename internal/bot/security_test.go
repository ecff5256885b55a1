package bot

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestAccessPolicy_AllowChat(t *testing.T) {
	p := NewAccessPolicy(42, []int64{-100500, -100600})

	t.Run("allow-listed group", func(t *testing.T) {
		ok, _ := p.AllowChat(-100500, tele.ChatSuperGroup)
		if !ok {
			t.Error("expected allow-listed chat to pass")
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		ok, reason := p.AllowChat(-999, tele.ChatGroup)
		if ok {
			t.Error("expected unknown chat to be rejected")
		}
		if reason == "" {
			t.Error("expected a rejection reason")
		}
	})

	t.Run("private chat always rejected", func(t *testing.T) {
		// Even an allow-listed id is rejected when the chat is private.
		if ok, _ := p.AllowChat(-100500, tele.ChatPrivate); ok {
			t.Error("expected private chat to be rejected")
		}
	})
}

func TestAccessPolicy_IsOwner(t *testing.T) {
	p := NewAccessPolicy(42, nil)
	if !p.IsOwner(42) {
		t.Error("expected owner to be recognized")
	}
	if p.IsOwner(43) {
		t.Error("expected non-owner to be rejected")
	}
}
