package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"edoparser/internal"
	"edoparser/internal/config"
	"edoparser/internal/connectors/googleauth"
)

type Connector struct {
	service *gmail.Service
	query   string
}

// NewConnector reuses the Google credentials of the Drive and Sheets stores.
func NewConnector(ctx context.Context, cfg config.Config) (*Connector, error) {
	auth, err := googleauth.ClientOption(ctx, cfg, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, err
	}
	return New(ctx, auth)
}

func New(ctx context.Context, opts ...option.ClientOption) (*Connector, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Connector{service: svc, query: "is:unread"}, nil
}

// FetchInbox returns unread messages under label. Headers are read from the raw
// message, so each message costs a single Get call.
func (c *Connector) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	listResp, err := c.service.Users.Messages.List("me").LabelIds(label).Q(c.query).MaxResults(int64(max)).Do()
	if err != nil {
		return nil, fmt.Errorf("list gmail %s: %w", label, err)
	}

	out := make([]internal.FetchedMailMessage, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		if ref.Id == "" {
			continue
		}
		msg, err := c.service.Users.Messages.Get("me", ref.Id).Format("raw").Do()
		if err != nil {
			return nil, fmt.Errorf("get gmail message %s: %w", ref.Id, err)
		}
		if msg.Raw == "" {
			continue
		}
		raw, err := decodeBase64URL(msg.Raw)
		if err != nil {
			return nil, err
		}
		out = append(out, fromRaw(ref.Id, raw, time.Now()))
	}
	return out, nil
}

func fromRaw(gmailID string, raw []byte, now time.Time) internal.FetchedMailMessage {
	msg := internal.FetchedMailMessage{Provider: "gmail", MessageID: gmailID, Raw: raw}
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		msg.ReceivedAt = now.UTC().Format(time.RFC3339)
		return msg
	}
	if id := strings.TrimSpace(env.GetHeader("Message-ID")); id != "" {
		msg.MessageID = id
	}
	msg.Subject = env.GetHeader("Subject")
	msg.From = env.GetHeader("From")
	msg.ReceivedAt = receivedAt(env.GetHeader("Date"), now)
	return msg
}

func decodeBase64URL(input string) ([]byte, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(input)
	if err == nil {
		return decoded, nil
	}
	decoded, err = base64.URLEncoding.DecodeString(input)
	if err == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("decode gmail raw payload: %w", err)
}

var dateLayouts = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC850,
	time.ANSIC,
}

// receivedAt formats a Date header as RFC 3339 UTC, falling back to now.
func receivedAt(header string, now time.Time) string {
	header = strings.TrimSpace(header)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, header); err == nil {
			return parsed.UTC().Format(time.RFC3339)
		}
	}
	return now.UTC().Format(time.RFC3339)
}
