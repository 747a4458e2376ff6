package notify

import (
	"context"
	"fmt"

	slacklib "github.com/slack-go/slack"

	"github.com/ogoue/ogoue/internal/domain"
)

// SlackAPI abstracts the subset of the Slack client used by SlackNotifier.
// This allows testing without real HTTP calls.
type SlackAPI interface {
	PostMessage(channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// SlackNotifier posts one message per recorded deletion to a fixed channel.
type SlackNotifier struct {
	api     SlackAPI
	channel string
}

var _ Notifier = (*SlackNotifier)(nil)

// NewSlackNotifier creates a SlackNotifier with the given API client and
// target channel.
func NewSlackNotifier(api SlackAPI, channel string) *SlackNotifier {
	return &SlackNotifier{api: api, channel: channel}
}

func (n *SlackNotifier) DeletionRecorded(_ context.Context, entry *domain.DeletionEntry) error {
	who := entry.DeletedByName
	if who == "" {
		who = "Unknown"
	}

	text := fmt.Sprintf(
		":wastebasket: %s deleted %s %s: \"%s\"",
		who, entry.RecordType, entry.RecordID, entry.Reason,
	)

	if _, _, err := n.api.PostMessage(n.channel, slacklib.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("notify.SlackNotifier.DeletionRecorded: %w", err)
	}

	return nil
}
