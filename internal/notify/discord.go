package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/houghtp/terra-automation-platform-sub005/internal/config"
	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
)

// Discord sends announcements to a fixed channel over the REST API. No
// gateway connection is opened.
type Discord struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscord(cfg config.DiscordNotifyConfig) (*Discord, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &Discord{session: session, channelID: cfg.ChannelID}, nil
}

func (d *Discord) Name() string { return "discord" }

func (d *Discord) Notify(ctx context.Context, subject, body string) {
	content := fmt.Sprintf("**%s**\n%s", subject, body)
	if _, err := d.session.ChannelMessageSend(d.channelID, content); err != nil {
		logger.Warn("discord notify to %s failed: %v", d.channelID, err)
	}
}
