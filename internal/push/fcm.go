package push

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// MaxMulticastTokens is the FCM limit on tokens per multicast call.
const MaxMulticastTokens = 500

type fcmClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMSender delivers through Firebase Cloud Messaging.
type FCMSender struct {
	client    fcmClient
	batchSize int
}

// NewFCMSender initializes a Firebase app from a service account file. An
// empty path falls back to application default credentials.
func NewFCMSender(ctx context.Context, credentialsPath string, batchSize int) (*FCMSender, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return newFCMSender(client, batchSize), nil
}

func newFCMSender(client fcmClient, batchSize int) *FCMSender {
	if batchSize <= 0 || batchSize > MaxMulticastTokens {
		batchSize = MaxMulticastTokens
	}
	return &FCMSender{client: client, batchSize: batchSize}
}

func (s *FCMSender) Enabled() bool { return true }

func (s *FCMSender) Send(ctx context.Context, token string, msg Message) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token:        token,
		Data:         msg.Data,
		Notification: &messaging.Notification{Title: msg.Title, Body: msg.Body},
	})
	return classifyFCM(err)
}

// SendMulticast issues one call per batch of at most batchSize tokens. A
// failed batch call marks every token of that batch as failed and moves on.
func (s *FCMSender) SendMulticast(ctx context.Context, tokens []string, msg Message) ([]Result, error) {
	results := make([]Result, 0, len(tokens))
	for start := 0; start < len(tokens); start += s.batchSize {
		end := min(start+s.batchSize, len(tokens))
		batch := tokens[start:end]

		resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       batch,
			Data:         msg.Data,
			Notification: &messaging.Notification{Title: msg.Title, Body: msg.Body},
		})
		if err != nil {
			for _, token := range batch {
				results = append(results, Result{Token: token, Err: classifyFCM(err)})
			}
			continue
		}

		for i, token := range batch {
			r := Result{Token: token}
			if i >= len(resp.Responses) {
				r.Err = &Error{Code: CodeOther, Err: errors.New("missing response")}
			} else if sr := resp.Responses[i]; sr == nil || !sr.Success {
				var sendErr error
				if sr != nil {
					sendErr = sr.Error
				}
				if sendErr == nil {
					sendErr = errors.New("send failed")
				}
				r.Err = classifyFCM(sendErr)
			}
			results = append(results, r)
		}
	}
	return results, nil
}

func classifyFCM(err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	switch {
	case messaging.IsUnregistered(err):
		return &Error{Code: CodeUnregistered, Err: err}
	case errorutils.IsInvalidArgument(err):
		return &Error{Code: CodeInvalidArgument, Err: err}
	default:
		return &Error{Code: CodeOther, Err: err}
	}
}
