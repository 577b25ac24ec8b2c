// Package push delivers notifications to device tokens through a configured
// provider: Firebase Cloud Messaging, Web Push, or nothing at all.
package push

import (
	"context"
	"errors"
	"fmt"

	"concierge-backend/config"
)

// Message is a provider-neutral notification.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Result is the outcome of one token in a multicast. Err is nil on success.
type Result struct {
	Token string
	Err   error
}

// Sender delivers messages to device tokens.
type Sender interface {
	// Enabled is false when no provider is configured; sends are then no-ops.
	Enabled() bool
	Send(ctx context.Context, token string, msg Message) error
	// SendMulticast returns one Result per token, in order. The error is
	// reserved for failures of the call as a whole.
	SendMulticast(ctx context.Context, tokens []string, msg Message) ([]Result, error)
}

// Code classifies a per-token failure.
type Code int

const (
	CodeOther Code = iota
	CodeUnregistered
	CodeInvalidArgument
)

func (c Code) String() string {
	switch c {
	case CodeOther:
		return "other"
	case CodeUnregistered:
		return "unregistered"
	case CodeInvalidArgument:
		return "invalid argument"
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error is a classified delivery failure.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("push %s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err means the token will never work again.
func IsPermanent(err error) bool {
	var pe *Error
	if !errors.As(err, &pe) {
		return false
	}
	switch pe.Code {
	case CodeUnregistered, CodeInvalidArgument:
		return true
	case CodeOther:
		return false
	}
	return false
}

// Disabled is the Sender used when no provider is configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Send(context.Context, string, Message) error { return nil }

func (Disabled) SendMulticast(context.Context, []string, Message) ([]Result, error) {
	return nil, nil
}

// New builds the Sender selected by cfg.Provider.
func New(ctx context.Context, cfg config.PushConfig) (Sender, error) {
	switch cfg.Provider {
	case "fcm":
		return NewFCMSender(ctx, cfg.FCMCredentialsPath, cfg.MulticastBatchSize)
	case "webpush":
		return NewWebPushSender(cfg), nil
	case "none", "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown push provider %q", cfg.Provider)
	}
}
