package handler

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/logger"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

type flashMessage struct {
	Level string
	Text  string
}

func flashKey(level string) string {
	return "_flash_" + level
}

func addFlash(c *gin.Context, level, text string) {
	session := sessions.Default(c)
	session.AddFlash(text, flashKey(level))
	if err := session.Save(); err != nil {
		logger.Warnw("flash_save_failed", "error", err)
	}
}

// popFlashes drains queued messages so they are shown once.
func popFlashes(c *gin.Context) []flashMessage {
	session := sessions.Default(c)

	var messages []flashMessage
	for _, level := range []string{flashError, flashSuccess} {
		for _, raw := range session.Flashes(flashKey(level)) {
			if text, ok := raw.(string); ok {
				messages = append(messages, flashMessage{Level: level, Text: text})
			}
		}
	}

	if len(messages) > 0 {
		if err := session.Save(); err != nil {
			logger.Warnw("flash_save_failed", "error", err)
		}
	}
	return messages
}
