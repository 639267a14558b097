package notify

import (
	"context"

	"github.com/houghtp/terra-automation-platform-sub005/internal/config"
	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
)

// Notifier delivers a short announcement to one channel. Implementations
// log their own failures; delivery is best effort.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, subject, body string)
}

// Multi fans one announcement out to every configured channel.
type Multi struct {
	targets []Notifier
}

// BuildMulti assembles notifiers for every channel with credentials in
// the config. An empty config yields a Multi that does nothing.
func BuildMulti(cfg config.NotifyConfig) *Multi {
	m := &Multi{}
	if cfg.Slack.BotToken != "" && cfg.Slack.Channel != "" {
		m.targets = append(m.targets, NewSlack(cfg.Slack))
	}
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		n, err := NewTelegram(cfg.Telegram)
		if err != nil {
			logger.Warn("telegram notifier disabled: %v", err)
		} else {
			m.targets = append(m.targets, n)
		}
	}
	if cfg.Discord.Token != "" && cfg.Discord.ChannelID != "" {
		n, err := NewDiscord(cfg.Discord)
		if err != nil {
			logger.Warn("discord notifier disabled: %v", err)
		} else {
			m.targets = append(m.targets, n)
		}
	}
	if cfg.Email.APIKey != "" && cfg.Email.To != "" {
		m.targets = append(m.targets, NewEmail(cfg.Email))
	}
	return m
}

func (m *Multi) Name() string { return "multi" }

// Targets reports the names of the active channels.
func (m *Multi) Targets() []string {
	names := make([]string, 0, len(m.targets))
	for _, t := range m.targets {
		names = append(names, t.Name())
	}
	return names
}

func (m *Multi) Notify(ctx context.Context, subject, body string) {
	for _, t := range m.targets {
		t.Notify(ctx, subject, body)
	}
}
