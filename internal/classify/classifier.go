// Package classify decides whether a chat message announces a free parking
// spot and extracts the spot number. Cheap keyword rules handle the obvious
// cases; ambiguous messages go to a language model. Any internal failure
// degrades to a negative answer, never to an error the caller must handle.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// LLM answers a free-form prompt. Implementations are expected to be safe
// for concurrent use.
type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	numberPat  = regexp.MustCompile(`\d+`)
	parkingPat = regexp.MustCompile(`(?i)место|парков|parking|spot`)
	freePat    = regexp.MustCompile(`(?i)свобод|освобод|free`)
	// Negated or inverted statements are never announcements, no matter
	// which keywords they contain.
	negationPat = regexp.MustCompile(`(?i)не\s+свобод|несвобод|занят|not\s+free|occupied`)
)

const llmPrompt = `Это сообщение о свободном парковочном месте? Ответь только "да" или "нет".

Сообщение: %s`

type Classifier struct {
	llm    LLM
	logger *slog.Logger
}

func New(llm LLM, logger *slog.Logger) *Classifier {
	return &Classifier{llm: llm, logger: logger}
}

// Classify reports whether text announces a free parking spot and, if so,
// the spot number (the first integer in the message, as people write
// "место 5 свободно").
func (c *Classifier) Classify(ctx context.Context, text string) (bool, int) {
	num := numberPat.FindString(text)
	if num == "" {
		return false, 0
	}
	place, err := strconv.Atoi(num)
	if err != nil || place <= 0 {
		return false, 0
	}

	// Questions ("место 5 свободно?") and negations are not announcements.
	if strings.Contains(text, "?") {
		return false, 0
	}
	if negationPat.MatchString(text) {
		return false, 0
	}

	if parkingPat.MatchString(text) && freePat.MatchString(text) {
		return true, place
	}

	if c.llm == nil {
		return false, 0
	}
	reply, err := c.llm.Complete(ctx, fmt.Sprintf(llmPrompt, text))
	if err != nil {
		c.logger.Warn("classifier llm call failed", "error", err)
		return false, 0
	}
	reply = strings.ToLower(strings.TrimSpace(reply))
	if strings.Contains(reply, "да") || strings.Contains(reply, "yes") {
		return true, place
	}
	return false, 0
}
