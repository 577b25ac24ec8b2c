package push

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFCM struct {
	batches  [][]string
	sent     []*messaging.Message
	failWith map[string]error
	callErr  error
}

func (f *fakeFCM) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.sent = append(f.sent, m)
	if err := f.failWith[m.Token]; err != nil {
		return "", err
	}
	return "projects/p/messages/1", nil
}

func (f *fakeFCM) SendEachForMulticast(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.batches = append(f.batches, m.Tokens)
	if f.callErr != nil {
		return nil, f.callErr
	}
	resp := &messaging.BatchResponse{}
	for _, token := range m.Tokens {
		if err := f.failWith[token]; err != nil {
			resp.FailureCount++
			resp.Responses = append(resp.Responses, &messaging.SendResponse{Error: err})
			continue
		}
		resp.SuccessCount++
		resp.Responses = append(resp.Responses, &messaging.SendResponse{Success: true, MessageID: "m-" + token})
	}
	return resp, nil
}

func TestFCMSender_SendMulticastBatches(t *testing.T) {
	fake := &fakeFCM{failWith: map[string]error{
		"t3": &Error{Code: CodeUnregistered, Err: errors.New("not registered")},
		"t4": errors.New("unavailable"),
	}}
	s := newFCMSender(fake, 2)

	results, err := s.SendMulticast(context.Background(), []string{"t1", "t2", "t3", "t4", "t5"}, Message{Title: "hi"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"t1", "t2"}, {"t3", "t4"}, {"t5"}}, fake.batches)
	require.Len(t, results, 5)
	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.True(t, IsPermanent(results[2].Err))
	assert.Error(t, results[3].Err)
	assert.False(t, IsPermanent(results[3].Err))
	assert.NoError(t, results[4].Err)
}

func TestFCMSender_BatchCallFailure(t *testing.T) {
	fake := &fakeFCM{callErr: errors.New("network down")}
	s := newFCMSender(fake, 0)

	results, err := s.SendMulticast(context.Background(), []string{"a", "b"}, Message{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Error(t, r.Err)
		assert.False(t, IsPermanent(r.Err))
	}
	assert.Equal(t, MaxMulticastTokens, s.batchSize)
}

func TestFCMSender_Send(t *testing.T) {
	fake := &fakeFCM{failWith: map[string]error{"bad": errors.New("boom")}}
	s := newFCMSender(fake, 10)

	msg := Message{Title: "T", Body: "B", Data: map[string]string{"eventType": "TEST_NOTIFICATION"}}
	require.NoError(t, s.Send(context.Background(), "good", msg))
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "good", fake.sent[0].Token)
	assert.Equal(t, "T", fake.sent[0].Notification.Title)
	assert.Equal(t, "TEST_NOTIFICATION", fake.sent[0].Data["eventType"])

	err := s.Send(context.Background(), "bad", msg)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, CodeOther, pe.Code)
}
