package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/houghtp/terra-automation-platform-sub005/internal/config"
	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
)

// Slack posts announcements to a single channel via the Web API.
type Slack struct {
	client  *slack.Client
	channel string
}

func NewSlack(cfg config.SlackNotifyConfig) *Slack {
	return &Slack{
		client:  slack.New(cfg.BotToken),
		channel: cfg.Channel,
	}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Notify(ctx context.Context, subject, body string) {
	text := fmt.Sprintf("*%s*\n%s", subject, body)
	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		logger.Warn("slack notify to %s failed: %v", s.channel, err)
	}
}
