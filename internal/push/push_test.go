package push

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge-backend/config"
)

func TestIsPermanent(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unregistered", err: &Error{Code: CodeUnregistered, Err: errors.New("gone")}, want: true},
		{name: "invalid argument", err: &Error{Code: CodeInvalidArgument, Err: errors.New("bad")}, want: true},
		{name: "wrapped", err: fmt.Errorf("send: %w", &Error{Code: CodeUnregistered}), want: true},
		{name: "other", err: &Error{Code: CodeOther, Err: errors.New("timeout")}, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsPermanent(tc.err))
		})
	}
}

func TestDisabled(t *testing.T) {
	var s Sender = Disabled{}
	assert.False(t, s.Enabled())
	assert.NoError(t, s.Send(context.Background(), "tok", Message{}))
	results, err := s.SendMulticast(context.Background(), []string{"a", "b"}, Message{})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), config.PushConfig{Provider: "none"})
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	s, err = New(context.Background(), config.PushConfig{Provider: "webpush", TTL: 60})
	require.NoError(t, err)
	assert.True(t, s.Enabled())

	_, err = New(context.Background(), config.PushConfig{Provider: "sms"})
	assert.Error(t, err)
}
