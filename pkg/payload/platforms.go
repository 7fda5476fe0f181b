package payload

import (
	"slices"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

var (
	validIOSPriorities      = []int{5, 10}
	validDeliveryPriorities = []string{"high", "normal"}
)

// IOS is the APNS platform override.
type IOS struct {
	// Alert is a string or an APNS alert dictionary.
	Alert any `yaml:"alert"`
	// Badge is an integer or an autobadge string (auto, +N, -N).
	Badge any     `yaml:"badge"`
	Sound *string `yaml:"sound"`
	// ContentAvailable, when true, emits "content-available": 1.
	ContentAvailable bool     `yaml:"content_available"`
	Extra            Document `yaml:"extra"`
	// Expiry is an integer or a UTC timestamp string.
	Expiry      any      `yaml:"expiry"`
	Interactive Document `yaml:"interactive"`
	Category    *string  `yaml:"category"`
	Title       *string  `yaml:"title"`
	// MutableContent lets a notification service extension modify the
	// content. iOS 10 or above.
	MutableContent  *bool    `yaml:"mutable_content"`
	Subtitle        *string  `yaml:"subtitle"`
	MediaAttachment Document `yaml:"media_attachment"`
	// Priority is 5 or 10.
	Priority *int `yaml:"priority"`
	// CollapseID groups notifications so a newer one replaces an older one.
	CollapseID *string `yaml:"collapse_id"`
}

// Build validates the override and returns the ios document.
func (p IOS) Build() (Document, error) {
	out := Document{}
	if p.Alert != nil {
		if _, ok := p.Alert.(string); !ok && !isMapping(p.Alert) {
			return nil, uaerrors.NewTypeError("ios", "alert", "iOS alert must be a string or dictionary", p.Alert)
		}
		out["alert"] = p.Alert
	}
	if p.Badge != nil {
		switch badge := p.Badge.(type) {
		case string:
			if err := checkAutobadge("ios", "badge", badge); err != nil {
				return nil, err
			}
		default:
			if !isInteger(badge) {
				return nil, uaerrors.NewTypeError("ios", "badge", "iOS badge must be an integer or string", p.Badge)
			}
		}
		out["badge"] = p.Badge
	}
	out.putString("sound", p.Sound)
	if p.ContentAvailable {
		out["content-available"] = 1
	}
	out.putDoc("extra", p.Extra)
	if p.Expiry != nil {
		if err := checkStringOrInt("ios", "expiry", p.Expiry, "iOS expiry must be an integer or string"); err != nil {
			return nil, err
		}
		out["expiry"] = p.Expiry
	}
	out.putDoc("interactive", p.Interactive)
	out.putString("category", p.Category)
	out.putString("title", p.Title)
	out.putBool("mutable_content", p.MutableContent)
	out.putString("subtitle", p.Subtitle)
	out.putDoc("media_attachment", p.MediaAttachment)
	if p.Priority != nil {
		if !slices.Contains(validIOSPriorities, *p.Priority) {
			return nil, uaerrors.NewValueError("ios", "priority", "iOS priority must be set to one of 5 or 10.", *p.Priority)
		}
		out["priority"] = *p.Priority
	}
	out.putString("collapse_id", p.CollapseID)
	return out, nil
}

// Android is the FCM/GCM platform override.
type Android struct {
	Alert       *string `yaml:"alert"`
	CollapseKey *string `yaml:"collapse_key"`
	// TimeToLive is an integer number of seconds or a UTC timestamp string.
	TimeToLive any `yaml:"time_to_live"`
	// DelayWhileIdle, when true, emits "delay_while_idle": true.
	DelayWhileIdle bool     `yaml:"delay_while_idle"`
	Extra          Document `yaml:"extra"`
	Interactive    Document `yaml:"interactive"`
	// LocalOnly hides the notification on wearables.
	LocalOnly *bool    `yaml:"local_only"`
	Wearable  Document `yaml:"wearable"`
	// DeliveryPriority is high or normal.
	DeliveryPriority *string  `yaml:"delivery_priority"`
	Style            Document `yaml:"style"`
	Title            *string  `yaml:"title"`
	Summary          *string  `yaml:"summary"`
	Sound            *string  `yaml:"sound"`
	// Priority is between -2 and 2 inclusive.
	Priority *int `yaml:"priority"`
	// Category is one of AndroidCategories.
	Category *string `yaml:"category"`
	// Visibility is between -1 and 1 inclusive.
	Visibility          *int     `yaml:"visibility"`
	PublicNotification  Document `yaml:"public_notification"`
	NotificationTag     *string  `yaml:"notification_tag"`
	NotificationChannel *string  `yaml:"notification_channel"`
	Icon                *string  `yaml:"icon"`
	// IconColor is #rrggbb.
	IconColor *string `yaml:"icon_color"`
}

// Build validates the override and returns the android document.
func (p Android) Build() (Document, error) {
	out := Document{}
	out.putString("alert", p.Alert)
	out.putString("collapse_key", p.CollapseKey)
	if p.TimeToLive != nil {
		if err := checkStringOrInt("android", "time_to_live", p.TimeToLive,
			"Android time_to_live value must be an integer or time set in UTC as a string"); err != nil {
			return nil, err
		}
		out["time_to_live"] = p.TimeToLive
	}
	if p.DelayWhileIdle {
		out["delay_while_idle"] = true
	}
	out.putDoc("extra", p.Extra)
	out.putDoc("interactive", p.Interactive)
	out.putBool("local_only", p.LocalOnly)
	out.putDoc("wearable", p.Wearable)
	if p.DeliveryPriority != nil {
		if !slices.Contains(validDeliveryPriorities, *p.DeliveryPriority) {
			return nil, uaerrors.NewValueError("android", "delivery_priority",
				"delivery_priority must be set to one of 'high' or 'normal'.", *p.DeliveryPriority)
		}
		out["delivery_priority"] = *p.DeliveryPriority
	}
	out.putDoc("style", p.Style)
	out.putString("title", p.Title)
	out.putString("summary", p.Summary)
	out.putString("sound", p.Sound)
	if p.Priority != nil {
		if err := checkRange("android", "priority", *p.Priority, -2, 2); err != nil {
			return nil, err
		}
		out["priority"] = *p.Priority
	}
	if p.Category != nil {
		if err := checkAndroidCategory("android", "category", *p.Category); err != nil {
			return nil, err
		}
		out["category"] = *p.Category
	}
	if p.Visibility != nil {
		if err := checkRange("android", "visibility", *p.Visibility, -1, 1); err != nil {
			return nil, err
		}
		out["visibility"] = *p.Visibility
	}
	out.putDoc("public_notification", p.PublicNotification)
	out.putString("notification_tag", p.NotificationTag)
	out.putString("notification_channel", p.NotificationChannel)
	out.putString("icon", p.Icon)
	if p.IconColor != nil {
		if err := checkHexColor("android", "icon_color", *p.IconColor); err != nil {
			return nil, err
		}
		out["icon_color"] = *p.IconColor
	}
	return out, nil
}

// Amazon is the ADM platform override.
type Amazon struct {
	Alert            *string `yaml:"alert"`
	ConsolidationKey *string `yaml:"consolidation_key"`
	// ExpiresAfter is an integer number of seconds or a UTC timestamp string.
	ExpiresAfter any      `yaml:"expires_after"`
	Extra        Document `yaml:"extra"`
	Title        *string  `yaml:"title"`
	Summary      *string  `yaml:"summary"`
	Interactive  Document `yaml:"interactive"`
	Style        Document `yaml:"style"`
	Sound        *string  `yaml:"sound"`
}

// Build validates the override and returns the amazon document.
func (p Amazon) Build() (Document, error) {
	out := Document{}
	out.putString("alert", p.Alert)
	out.putString("consolidation_key", p.ConsolidationKey)
	if p.ExpiresAfter != nil {
		if err := checkStringOrInt("amazon", "expires_after", p.ExpiresAfter,
			"Amazon expires_after value must be an integer or time set in UTC as a string"); err != nil {
			return nil, err
		}
		out["expires_after"] = p.ExpiresAfter
	}
	out.putDoc("extra", p.Extra)
	out.putString("title", p.Title)
	out.putString("summary", p.Summary)
	out.putDoc("interactive", p.Interactive)
	out.putDoc("style", p.Style)
	out.putString("sound", p.Sound)
	return out, nil
}

// Web is the web push platform override.
type Web struct {
	Alert *string  `yaml:"alert"`
	Extra Document `yaml:"extra"`
	// Icon holds a "url" key pointing at an HTTPS icon resource.
	Icon        Document `yaml:"icon"`
	Title       *string  `yaml:"title"`
	Interactive Document `yaml:"interactive"`
	// TimeToLive is an integer number of seconds or a UTC timestamp string.
	TimeToLive any `yaml:"time_to_live"`
	// RequireInteraction keeps the notification until the user acts on it.
	RequireInteraction *bool `yaml:"require_interaction"`
}

// Build validates the override and returns the web document.
func (p Web) Build() (Document, error) {
	out := Document{}
	out.putString("alert", p.Alert)
	out.putDoc("extra", p.Extra)
	out.putDoc("icon", p.Icon)
	out.putString("title", p.Title)
	out.putDoc("interactive", p.Interactive)
	if p.TimeToLive != nil {
		if err := checkStringOrInt("web", "time_to_live", p.TimeToLive,
			"Web time_to_live must be an integer or string"); err != nil {
			return nil, err
		}
		out["time_to_live"] = p.TimeToLive
	}
	out.putBool("require_interaction", p.RequireInteraction)
	return out, nil
}

// OpenPlatform is the override for a caller-defined open channel. It is
// attached to a Notification under OpenPlatforms, keyed by channel name.
type OpenPlatform struct {
	Alert   *string  `yaml:"alert"`
	Title   *string  `yaml:"title"`
	Extra   Document `yaml:"extra"`
	Summary *string  `yaml:"summary"`
	// MediaAttachment is a URI for an image or video.
	MediaAttachment *string `yaml:"media_attachment"`
	// Interactive button actions must be add_tag, remove_tag, app_defined or
	// open with subtype url.
	Interactive Document `yaml:"interactive"`
}

// Build returns the open platform document.
func (p OpenPlatform) Build() (Document, error) {
	out := Document{}
	out.putString("alert", p.Alert)
	out.putString("title", p.Title)
	out.putDoc("extra", p.Extra)
	out.putString("summary", p.Summary)
	out.putString("media_attachment", p.MediaAttachment)
	out.putDoc("interactive", p.Interactive)
	return out, nil
}

// WNS is the Windows push override. Exactly one of Alert, Toast, Tile or
// Badge must be set.
type WNS struct {
	Alert *string  `yaml:"alert"`
	Toast Document `yaml:"toast"`
	Tile  Document `yaml:"tile"`
	Badge Document `yaml:"badge"`
}

// Build returns the wns document.
func (p WNS) Build() (Document, error) {
	set := 0
	if p.Alert != nil {
		set++
	}
	for _, d := range []Document{p.Toast, p.Tile, p.Badge} {
		if d != nil {
			set++
		}
	}
	switch {
	case set == 0:
		return nil, uaerrors.NewMissingFieldError("wns", "", "WNS payload must have one notification type.")
	case set > 1:
		return nil, uaerrors.NewValueError("wns", "", "WNS payload must have one notification type.", set)
	}

	out := Document{}
	out.putString("alert", p.Alert)
	out.putDoc("toast", p.Toast)
	out.putDoc("tile", p.Tile)
	out.putDoc("badge", p.Badge)
	return out, nil
}
