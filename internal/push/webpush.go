package push

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"concierge-backend/config"
)

// webPushClient sends a single web push notification.
type webPushClient interface {
	Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

type vapidClient struct{}

func (vapidClient) Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotificationWithContext(ctx, payload, sub, options)
}

// WebPushSender delivers to browsers. A device token is the JSON encoding
// of the browser's PushSubscription.
type WebPushSender struct {
	client  webPushClient
	options *webpush.Options
}

func NewWebPushSender(cfg config.PushConfig) *WebPushSender {
	return &WebPushSender{
		client: vapidClient{},
		options: &webpush.Options{
			Subscriber:      cfg.Subject,
			VAPIDPublicKey:  cfg.PublicKey,
			VAPIDPrivateKey: cfg.PrivateKey,
			TTL:             cfg.TTL,
		},
	}
}

func (s *WebPushSender) Enabled() bool { return true }

type webPushPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func (s *WebPushSender) Send(ctx context.Context, token string, msg Message) error {
	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(token), &sub); err != nil || sub.Endpoint == "" {
		return &Error{Code: CodeInvalidArgument, Err: fmt.Errorf("token is not a push subscription: %v", err)}
	}

	payload, err := json.Marshal(webPushPayload{Title: msg.Title, Body: msg.Body, Data: msg.Data})
	if err != nil {
		return &Error{Code: CodeOther, Err: err}
	}

	resp, err := s.client.Send(ctx, payload, &sub, s.options)
	if err != nil {
		return &Error{Code: CodeOther, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return &Error{Code: CodeUnregistered, Err: fmt.Errorf("subscription expired: %s", resp.Status)}
	case resp.StatusCode >= 400:
		return &Error{Code: CodeOther, Err: fmt.Errorf("push service responded %s", resp.Status)}
	}
	return nil
}

// SendMulticast sends to each subscription in turn; Web Push has no batch call.
func (s *WebPushSender) SendMulticast(ctx context.Context, tokens []string, msg Message) ([]Result, error) {
	results := make([]Result, 0, len(tokens))
	for _, token := range tokens {
		results = append(results, Result{Token: token, Err: s.Send(ctx, token, msg)})
	}
	return results, nil
}
