package payload

import (
	"fmt"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

// Android / Amazon fragments

// Wearable customises an android notification on wearable devices.
type Wearable struct {
	BackgroundImage *string  `yaml:"background_image"`
	ExtraPages      []any    `yaml:"extra_pages"`
	Interactive     Document `yaml:"interactive"`
}

// Build returns the wearable document.
func (w Wearable) Build() (Document, error) {
	out := Document{}
	out.putString("background_image", w.BackgroundImage)
	if w.ExtraPages != nil {
		out["extra_pages"] = w.ExtraPages
	}
	out.putDoc("interactive", w.Interactive)
	return out, nil
}

// PublicNotification is the lock screen version of an android notification.
type PublicNotification struct {
	Title   *string `yaml:"title"`
	Alert   *string `yaml:"alert"`
	Summary *string `yaml:"summary"`
}

// Build returns the public notification document.
func (p PublicNotification) Build() (Document, error) {
	out := Document{}
	out.putString("title", p.Title)
	out.putString("alert", p.Alert)
	out.putString("summary", p.Summary)
	return out, nil
}

// Style types accepted by Style.
const (
	StyleBigText    = "big_text"
	StyleBigPicture = "big_picture"
	StyleInbox      = "inbox"
)

// styleContentKeys maps a style type to the key its content is stored under.
var styleContentKeys = map[string]string{
	StyleBigText:    "big_text",
	StyleBigPicture: "big_picture",
	StyleInbox:      "lines",
}

// Style is an android/amazon advanced notification style. Content is a string
// for big_text and big_picture, and a list of strings for inbox.
type Style struct {
	Type    string  `yaml:"type"`
	Content any     `yaml:"content"`
	Title   *string `yaml:"title"`
	Summary *string `yaml:"summary"`
}

// Build returns the style document. Content is mandatory.
func (s Style) Build() (Document, error) {
	key, ok := styleContentKeys[s.Type]
	if !ok {
		return nil, uaerrors.NewValueError("style", "type",
			fmt.Sprintf("style_type must be one of %s, %s, %s.", StyleBigText, StyleBigPicture, StyleInbox), s.Type)
	}
	if s.Content == nil {
		return nil, uaerrors.NewMissingFieldError("style", key, "style requires content")
	}
	out := Document{"type": s.Type}
	out.putAny(key, s.Content)
	out.putString("title", s.Title)
	out.putString("summary", s.Summary)
	return out, nil
}

// iOS fragments

// MediaAttachment is handled by the Airship media attachment extension.
type MediaAttachment struct {
	URL     string   `yaml:"url"`
	Content Document `yaml:"content"`
	Options Document `yaml:"options"`
}

// Build returns the media attachment document. URL is mandatory.
func (m MediaAttachment) Build() (Document, error) {
	if m.URL == "" {
		return nil, uaerrors.NewMissingFieldError("media_attachment", "url", "media_attachment requires a url")
	}
	out := Document{"url": m.URL}
	out.putDoc("content", m.Content)
	out.putDoc("options", m.Options)
	return out, nil
}

// Content describes the parts of a notification replaced when a media
// attachment loads.
type Content struct {
	Title    *string `yaml:"title"`
	Subtitle *string `yaml:"subtitle"`
	Body     *string `yaml:"body"`
}

// Build returns the content document.
func (c Content) Build() (Document, error) {
	out := Document{}
	out.putString("title", c.Title)
	out.putString("subtitle", c.Subtitle)
	out.putString("body", c.Body)
	return out, nil
}

// Crop describes the crop applied to a media attachment thumbnail.
type Crop struct {
	X      *float64 `yaml:"x"`
	Y      *float64 `yaml:"y"`
	Width  *float64 `yaml:"width"`
	Height *float64 `yaml:"height"`
}

// Build returns the crop document.
func (c Crop) Build() (Document, error) {
	out := Document{}
	out.putFloat("x", c.X)
	out.putFloat("y", c.Y)
	out.putFloat("width", c.Width)
	out.putFloat("height", c.Height)
	return out, nil
}
