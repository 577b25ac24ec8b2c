package push

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWebPush struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockWebPush) Send(_ context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func respond(status int) (*http.Response, error) {
	return &http.Response{StatusCode: status, Status: http.StatusText(status), Body: io.NopCloser(strings.NewReader(""))}, nil
}

func subscriptionToken(endpoint string) string {
	return `{"endpoint":"` + endpoint + `","keys":{"p256dh":"key","auth":"secret"}}`
}

func TestWebPushSender_Send(t *testing.T) {
	var gotPayload webPushPayload
	var gotSub *webpush.Subscription
	s := &WebPushSender{options: &webpush.Options{TTL: 30}, client: &mockWebPush{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			gotSub = sub
			require.NoError(t, json.Unmarshal(payload, &gotPayload))
			switch sub.Endpoint {
			case "https://push.example/gone":
				return respond(http.StatusGone)
			case "https://push.example/missing":
				return respond(http.StatusNotFound)
			case "https://push.example/busy":
				return respond(http.StatusTooManyRequests)
			case "https://push.example/down":
				return nil, errors.New("dial tcp: refused")
			}
			return respond(http.StatusCreated)
		},
	}}
	ctx := context.Background()
	msg := Message{Title: "New service request", Body: "Room 101 has a new request", Data: map[string]string{"requestId": "7"}}

	require.NoError(t, s.Send(ctx, subscriptionToken("https://push.example/ok"), msg))
	assert.Equal(t, "key", gotSub.Keys.P256dh)
	assert.Equal(t, "secret", gotSub.Keys.Auth)
	assert.Equal(t, "New service request", gotPayload.Title)
	assert.Equal(t, "7", gotPayload.Data["requestId"])

	assert.True(t, IsPermanent(s.Send(ctx, subscriptionToken("https://push.example/gone"), msg)))
	assert.True(t, IsPermanent(s.Send(ctx, subscriptionToken("https://push.example/missing"), msg)))
	assert.True(t, IsPermanent(s.Send(ctx, "not-json", msg)))

	busy := s.Send(ctx, subscriptionToken("https://push.example/busy"), msg)
	assert.Error(t, busy)
	assert.False(t, IsPermanent(busy))

	down := s.Send(ctx, subscriptionToken("https://push.example/down"), msg)
	assert.Error(t, down)
	assert.False(t, IsPermanent(down))
}

func TestWebPushSender_SendMulticast(t *testing.T) {
	calls := 0
	s := &WebPushSender{options: &webpush.Options{}, client: &mockWebPush{
		SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			calls++
			return respond(http.StatusCreated)
		},
	}}

	results, err := s.SendMulticast(context.Background(), []string{subscriptionToken("https://a"), "{}"}, Message{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.True(t, IsPermanent(results[1].Err), "subscription without endpoint")
	assert.Equal(t, 1, calls)
}
