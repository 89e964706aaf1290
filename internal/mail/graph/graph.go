// Package graph sends mail through the Microsoft Graph sendMail endpoint.
// Credentials come from a client-credentials token exchange against the
// tenant's OAuth endpoint; oauth2/clientcredentials handles caching/refresh.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/wsustone/L2L-United/internal/domain"
)

const graphBase = "https://graph.microsoft.com/v1.0"

type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	SenderEmail  string
	FromAlias    string // defaults to SenderEmail
}

type Mailer struct {
	cfg    Config
	oauth  *clientcredentials.Config
	logger *log.Logger
}

var _ domain.Mailer = (*Mailer)(nil)

// New fails fast on missing credentials: a half-configured mailer would only
// surface at first send.
func New(cfg Config, logger *log.Logger) (*Mailer, error) {
	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("Microsoft Graph credentials are not fully configured")
	}
	if cfg.SenderEmail == "" {
		return nil, errors.New("Graph sender address is not configured")
	}
	if cfg.FromAlias == "" {
		cfg.FromAlias = cfg.SenderEmail
	}

	oauth := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}
	return &Mailer{cfg: cfg, oauth: oauth, logger: logger}, nil
}

type emailAddress struct {
	Address string `json:"address"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type sendMailRequest struct {
	Message struct {
		Subject string `json:"subject"`
		Body    struct {
			ContentType string `json:"contentType"`
			Content     string `json:"content"`
		} `json:"body"`
		ToRecipients []recipient `json:"toRecipients"`
		ReplyTo      []recipient `json:"replyTo"`
		From         recipient   `json:"from"`
		Sender       recipient   `json:"sender"`
	} `json:"message"`
	SaveToSentItems bool `json:"saveToSentItems"`
}

// Send dispatches one message. Failures are not retried; the provider error
// body is wrapped into the returned error.
func (m *Mailer) Send(ctx context.Context, msg domain.Message) error {
	var req sendMailRequest
	req.Message.Subject = msg.Subject
	req.Message.Body.ContentType = "HTML"
	req.Message.Body.Content = msg.HTMLBody
	req.Message.ToRecipients = []recipient{{EmailAddress: emailAddress{Address: msg.To}}}
	if msg.ReplyTo != "" {
		req.Message.ReplyTo = []recipient{{EmailAddress: emailAddress{Address: msg.ReplyTo}}}
	} else {
		req.Message.ReplyTo = []recipient{}
	}
	req.Message.From = recipient{EmailAddress: emailAddress{Address: m.cfg.FromAlias}}
	req.Message.Sender = recipient{EmailAddress: emailAddress{Address: m.cfg.SenderEmail}}
	req.SaveToSentItems = false

	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/users/%s/sendMail", graphBase, url.PathEscape(m.cfg.SenderEmail))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// oauth client fetches/caches the app token and sets Authorization
	cl := m.oauth.Client(ctx)
	cl.Timeout = 15 * time.Second

	start := time.Now()
	resp, err := cl.Do(httpReq)
	if err != nil {
		m.logger.Printf("sendMail to=%s failed after %s: %v", msg.To, time.Since(start), err)
		return fmt.Errorf("graph sendMail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		m.logger.Printf("sendMail to=%s status=%d after %s", msg.To, resp.StatusCode, time.Since(start))
		return fmt.Errorf("graph sendMail failed: %d %s", resp.StatusCode, detail)
	}

	m.logger.Printf("sendMail to=%s ok in %s", msg.To, time.Since(start))
	return nil
}
