package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SlackSender posts to a Slack incoming webhook.
type SlackSender struct {
	url  string
	http *http.Client
}

func NewSlackSender(webhookURL string, timeout time.Duration) *SlackSender {
	h := &http.Client{}
	if timeout > 0 {
		h.Timeout = timeout
	}
	return &SlackSender{url: webhookURL, http: h}
}

func (s *SlackSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return fmt.Errorf("slack webhook: %s: %s", res.Status, bytes.TrimSpace(detail))
	}
	return nil
}
