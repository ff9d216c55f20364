package imap

import (
	"crypto/tls"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"

	"edoparser/internal"
	"edoparser/internal/config"
)

type Connector struct {
	host     string
	port     int
	secure   bool
	user     string
	password string
	markSeen bool
}

func NewConnector(cfg config.Config) (*Connector, error) {
	if err := cfg.Require("IMAP_HOST", cfg.IMAPHost); err != nil {
		return nil, err
	}
	if err := cfg.Require("IMAP_USER", cfg.IMAPUser); err != nil {
		return nil, err
	}
	if err := cfg.Require("IMAP_PASSWORD", cfg.IMAPPassword); err != nil {
		return nil, err
	}

	return &Connector{
		host:     cfg.IMAPHost,
		port:     cfg.IMAPPort,
		secure:   cfg.IMAPSecure,
		user:     cfg.IMAPUser,
		password: cfg.IMAPPassword,
		markSeen: cfg.IMAPMarkSeen,
	}, nil
}

func (c *Connector) dial() (*imapclient.Client, error) {
	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	if c.secure {
		return imapclient.DialTLS(addr, &tls.Config{ServerName: c.host})
	}
	return imapclient.Dial(addr)
}

// FetchInbox returns the newest max unseen messages of mailbox label. Seen flags
// are set after the fetch completes when markSeen is on.
func (c *Connector) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	client, err := c.dial()
	if err != nil {
		return nil, fmt.Errorf("dial imap: %w", err)
	}
	defer client.Logout()

	if err := client.Login(c.user, c.password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	if _, err := client.Select(label, false); err != nil {
		return nil, fmt.Errorf("select %s: %w", label, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := client.Search(criteria)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if max > 0 && len(ids) > max {
		ids = ids[len(ids)-max:]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchInternalDate, imap.FetchUid, section.FetchItem()}
	messages := make(chan *imap.Message, len(ids))
	fetchDone := make(chan error, 1)
	go func() { fetchDone <- client.Fetch(seqset, items, messages) }()

	out := make([]internal.FetchedMailMessage, 0, len(ids))
	fetched := new(imap.SeqSet)
	var readErr error
	for msg := range messages {
		if msg == nil || readErr != nil {
			continue
		}
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		raw, err := io.ReadAll(body)
		if err != nil {
			readErr = err
			continue
		}
		out = append(out, toFetched(msg, raw, time.Now()))
		fetched.AddNum(msg.SeqNum)
	}
	if err := <-fetchDone; err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, readErr
	}

	if c.markSeen && !fetched.Empty() {
		item := imap.FormatFlagsOp(imap.AddFlags, true)
		if err := client.Store(fetched, item, []interface{}{imap.SeenFlag}, nil); err != nil {
			return nil, fmt.Errorf("mark seen: %w", err)
		}
	}
	return out, nil
}

func toFetched(msg *imap.Message, raw []byte, now time.Time) internal.FetchedMailMessage {
	out := internal.FetchedMailMessage{
		Provider:   "imap",
		MessageID:  fmt.Sprintf("imap-%d", msg.Uid),
		ReceivedAt: now.UTC().Format(time.RFC3339),
		Raw:        raw,
	}
	if msg.Envelope != nil {
		if msg.Envelope.MessageId != "" {
			out.MessageID = msg.Envelope.MessageId
		}
		out.Subject = msg.Envelope.Subject
		out.From = formatAddresses(msg.Envelope.From)
	}
	if !msg.InternalDate.IsZero() {
		out.ReceivedAt = msg.InternalDate.UTC().Format(time.RFC3339)
	}
	return out
}

func formatAddresses(addrs []*imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a == nil {
			continue
		}
		email := strings.Trim(a.MailboxName+"@"+a.HostName, "@")
		if a.PersonalName != "" {
			parts = append(parts, fmt.Sprintf("%s <%s>", a.PersonalName, email))
		} else {
			parts = append(parts, email)
		}
	}
	return strings.Join(parts, ", ")
}
