package payload

import (
	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

// Message is a rich push (message center) payload.
type Message struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`

	// ContentType is the MIME type of Body.
	ContentType *string `yaml:"content_type"`
	// ContentEncoding is the encoding of Body, e.g. utf-8.
	ContentEncoding *string  `yaml:"content_encoding"`
	Extra           Document `yaml:"extra"`
	// Expiry is when the message is removed from the inbox: seconds as an
	// integer or a UTC timestamp string.
	Expiry    any      `yaml:"expiry"`
	Icons     Document `yaml:"icons"`
	Options   Document `yaml:"options"`
	Campaigns Document `yaml:"campaigns"`
}

// Build returns the message document. Title and Body are mandatory.
func (m Message) Build() (Document, error) {
	if m.Title == "" {
		return nil, uaerrors.NewMissingFieldError("message", "title", "message title is required")
	}
	if m.Body == "" {
		return nil, uaerrors.NewMissingFieldError("message", "body", "message body is required")
	}

	out := Document{
		"title": m.Title,
		"body":  m.Body,
	}
	out.putString("content_type", m.ContentType)
	out.putString("content_encoding", m.ContentEncoding)
	out.putDoc("extra", m.Extra)
	if m.Expiry != nil {
		if err := checkStringOrInt("message", "expiry", m.Expiry,
			"Expiry value must be an integer or time set in UTC as a string"); err != nil {
			return nil, err
		}
		out["expiry"] = m.Expiry
	}
	out.putDoc("icons", m.Icons)
	out.putDoc("options", m.Options)
	out.putDoc("campaigns", m.Campaigns)
	return out, nil
}

// InApp is an in-app message payload.
type InApp struct {
	Alert string `yaml:"alert"`
	// DisplayType is the in-app display type, e.g. banner.
	DisplayType string `yaml:"display_type"`

	Expiry      *string  `yaml:"expiry"`
	Display     Document `yaml:"display"`
	Actions     Document `yaml:"actions"`
	Interactive Document `yaml:"interactive"`
	Extra       Document `yaml:"extra"`
}

// Build returns the in-app document. Alert and DisplayType are mandatory.
func (i InApp) Build() (Document, error) {
	if i.Alert == "" {
		return nil, uaerrors.NewMissingFieldError("in_app", "alert", "in_app alert is required")
	}
	if i.DisplayType == "" {
		return nil, uaerrors.NewMissingFieldError("in_app", "display_type", "in_app display_type is required")
	}

	out := Document{
		"alert":        i.Alert,
		"display_type": i.DisplayType,
	}
	out.putString("expiry", i.Expiry)
	out.putDoc("display", i.Display)
	out.putDoc("actions", i.Actions)
	out.putDoc("interactive", i.Interactive)
	out.putDoc("extra", i.Extra)
	return out, nil
}
