// Package notification tells hotel staff about new guest requests.
package notification

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"concierge-backend/internal/apperr"
	"concierge-backend/internal/model"
	"concierge-backend/internal/push"
)

const (
	EventNewRequest       = "NEW_REQUEST"
	EventTestNotification = "TEST_NOTIFICATION"

	newRequestTitle = "New service request"
	guestWaiting    = "A new guest request is waiting"

	DefaultTestTitle = "Test notification"
	DefaultTestBody  = "Push test from the concierge backend"
)

// recipientRoles are the labels that receive new-request notifications.
var recipientRoles = []model.Role{model.RoleHotelAdmin, model.RoleStaff, model.RoleAdmin}

// Store is the storage the dispatcher reads recipients from and deactivates
// dead tokens in.
type Store interface {
	ListActorsByHotel(ctx context.Context, hotelID int64, status model.ActorStatus, roles []model.Role) ([]model.Actor, error)
	ListActiveDeviceTokens(ctx context.Context, actorIDs []int64) ([]model.DeviceToken, error)
	DeactivateDeviceToken(ctx context.Context, token string, now time.Time) error
}

// Dispatcher sends push notifications. Every failure is logged and
// swallowed.
type Dispatcher struct {
	store  Store
	sender push.Sender
	now    func() time.Time
}

func NewDispatcher(s Store, sender push.Sender) *Dispatcher {
	if sender == nil {
		sender = push.Disabled{}
	}
	return &Dispatcher{store: s, sender: sender, now: time.Now}
}

// Enabled reports whether a push provider is configured.
func (d *Dispatcher) Enabled() bool {
	return d.sender.Enabled()
}

// NotifyNewRequest notifies the active staff of the request's hotel.
func (d *Dispatcher) NotifyNewRequest(ctx context.Context, req model.Request) {
	if req.ID == 0 || req.HotelID == 0 {
		return
	}
	if !d.sender.Enabled() {
		log.Printf("push disabled; skipping notification for request %d", req.ID)
		return
	}

	recipients, err := d.store.ListActorsByHotel(ctx, req.HotelID, model.StatusActive, recipientRoles)
	if err != nil {
		log.Printf("Error fetching recipients for request %d: %v", req.ID, err)
		return
	}
	if len(recipients) == 0 {
		log.Printf("No active recipients for request %d in hotel %d", req.ID, req.HotelID)
		return
	}

	ids := make([]int64, 0, len(recipients))
	for _, a := range recipients {
		ids = append(ids, a.ID)
	}
	deviceTokens, err := d.store.ListActiveDeviceTokens(ctx, ids)
	if err != nil {
		log.Printf("Error fetching device tokens for request %d: %v", req.ID, err)
		return
	}
	tokens := uniqueTokens(deviceTokens)
	if len(tokens) == 0 {
		log.Printf("No active device tokens for request %d recipients", req.ID)
		return
	}

	results, err := d.sender.SendMulticast(ctx, tokens, newRequestMessage(req))
	if err != nil {
		log.Printf("Error sending notifications for request %d: %v", req.ID, err)
		return
	}
	d.handleResults(ctx, results)
}

// SendTest sends a single test notification to token. Blank title and body
// fall back to defaults.
func (d *Dispatcher) SendTest(ctx context.Context, token, title, body string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.Validationf("token is required")
	}
	if !d.sender.Enabled() {
		log.Printf("push disabled; skipping test notification")
		return nil
	}

	msg := push.Message{
		Title: orDefault(title, DefaultTestTitle),
		Body:  orDefault(body, DefaultTestBody),
		Data:  map[string]string{"eventType": EventTestNotification},
	}
	d.handleResults(ctx, []push.Result{{Token: token, Err: d.sender.Send(ctx, token, msg)}})
	return nil
}

func (d *Dispatcher) handleResults(ctx context.Context, results []push.Result) {
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		log.Printf("Error sending notification to token %s: %v", abbreviate(r.Token), r.Err)
		if !push.IsPermanent(r.Err) {
			continue
		}
		if err := d.store.DeactivateDeviceToken(ctx, r.Token, d.now()); err != nil {
			log.Printf("Failed to deactivate token %s: %v", abbreviate(r.Token), err)
			continue
		}
		log.Printf("Deactivated token %s", abbreviate(r.Token))
	}
}

func newRequestMessage(req model.Request) push.Message {
	body := guestWaiting
	if n := strings.TrimSpace(req.Room.Number); n != "" {
		body = "Room " + n + " has a new request"
	}

	data := map[string]string{
		"eventType": EventNewRequest,
		"requestId": strconv.FormatInt(req.ID, 10),
		"hotelId":   strconv.FormatInt(req.HotelID, 10),
	}
	if req.RoomID != 0 {
		data["roomId"] = strconv.FormatInt(req.RoomID, 10)
	}
	if req.Type != "" {
		data["requestType"] = string(req.Type)
	}
	return push.Message{Title: newRequestTitle, Body: body, Data: data}
}

// uniqueTokens trims tokens and drops blanks and repeats, keeping order.
func uniqueTokens(deviceTokens []model.DeviceToken) []string {
	seen := make(map[string]struct{}, len(deviceTokens))
	tokens := make([]string, 0, len(deviceTokens))
	for _, dt := range deviceTokens {
		t := strings.TrimSpace(dt.Token)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// abbreviate keeps device tokens out of the logs in full.
func abbreviate(token string) string {
	if len(token) <= 12 {
		return token
	}
	return token[:12] + "..."
}
