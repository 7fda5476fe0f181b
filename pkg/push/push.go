// Package push assembles push requests from payload documents and sends
// them through the Airship API.
package push

import (
	"context"
	"net/http"

	"github.com/kart-io/uapush/pkg/airship"
	uaerrors "github.com/kart-io/uapush/pkg/errors"
	"github.com/kart-io/uapush/pkg/payload"
)

const (
	pushPath     = "/push/"
	validatePath = "/push/validate/"
)

// Push is a single push request. Audience and DeviceTypes are required,
// plus at least one of Notification, Message or InApp.
type Push struct {
	// Audience is All or a selector document.
	Audience any
	// DeviceTypes is the value returned by payload.DeviceTypes.
	DeviceTypes  any
	Notification payload.Document
	Options      payload.Document
	Campaigns    payload.Document
	Message      payload.Document
	InApp        payload.Document

	client *airship.Client
}

// Response is the API's answer to an accepted push.
type Response struct {
	OK          bool     `json:"ok"`
	OperationID string   `json:"operation_id"`
	PushIDs     []string `json:"push_ids"`
	MessageIDs  []string `json:"message_ids,omitempty"`
	ContentURLs []string `json:"content_urls,omitempty"`
}

// New returns an empty push bound to client.
func New(client *airship.Client) *Push {
	return &Push{client: client}
}

// Payload returns the request body.
func (p *Push) Payload() (payload.Document, error) {
	if p.Audience == nil {
		return nil, uaerrors.NewMissingFieldError("push", "audience", "push audience is required")
	}
	if p.DeviceTypes == nil {
		return nil, uaerrors.NewMissingFieldError("push", "device_types", "push device_types is required")
	}
	if p.Notification == nil && p.Message == nil && p.InApp == nil {
		return nil, uaerrors.NewMissingFieldError("push", "notification",
			"push requires a notification, message or in_app")
	}

	out := payload.Document{
		"audience":     p.Audience,
		"device_types": p.DeviceTypes,
	}
	for key, doc := range map[string]payload.Document{
		"notification": p.Notification,
		"options":      p.Options,
		"campaigns":    p.Campaigns,
		"message":      p.Message,
		"in_app":       p.InApp,
	} {
		if doc != nil {
			out[key] = doc
		}
	}
	return out, nil
}

// Send delivers the push.
func (p *Push) Send(ctx context.Context) (*Response, error) {
	body, err := p.request()
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := p.client.Do(ctx, http.MethodPost, pushPath, body, &resp); err != nil {
		return nil, err
	}
	p.client.Logger().Info("push sent", "operation_id", resp.OperationID, "push_ids", resp.PushIDs)
	return &resp, nil
}

// Validate asks the API to check the push without delivering it.
func (p *Push) Validate(ctx context.Context) error {
	body, err := p.request()
	if err != nil {
		return err
	}
	if err := p.client.Do(ctx, http.MethodPost, validatePath, body, nil); err != nil {
		return err
	}
	p.client.Logger().Debug("push validated")
	return nil
}

func (p *Push) request() (payload.Document, error) {
	if p.client == nil {
		return nil, uaerrors.New(uaerrors.ErrInvalidConfig, "push is not bound to a client")
	}
	return p.Payload()
}
