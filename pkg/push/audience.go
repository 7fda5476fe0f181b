package push

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
	"github.com/kart-io/uapush/pkg/payload"
)

// All targets every device.
const All = "all"

var (
	deviceTokenFormat = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	devicePinFormat   = regexp.MustCompile(`^[0-9a-fA-F]{8}$`)

	dateResolutions = []string{"minutes", "hours", "days", "weeks", "months", "years"}
)

// DeviceToken selects a single iOS device token.
func DeviceToken(token string) (payload.Document, error) {
	token = strings.TrimSpace(token)
	if !deviceTokenFormat.MatchString(token) {
		return nil, uaerrors.NewValueError("audience", "device_token", "Invalid device token", token)
	}
	return payload.Document{"device_token": strings.ToUpper(token)}, nil
}

// DevicePin selects a single BlackBerry PIN.
func DevicePin(pin string) (payload.Document, error) {
	pin = strings.TrimSpace(pin)
	if !devicePinFormat.MatchString(pin) {
		return nil, uaerrors.NewValueError("audience", "device_pin", "Invalid device PIN", pin)
	}
	return payload.Document{"device_pin": strings.ToLower(pin)}, nil
}

// APID selects a single Android channel.
func APID(id string) (payload.Document, error) {
	return uuidSelector("apid", "Invalid APID", id)
}

// WNS selects a single Windows channel.
func WNS(id string) (payload.Document, error) {
	return uuidSelector("wns", "Invalid WNS APID", id)
}

// MPNS selects a single Windows Phone channel.
func MPNS(id string) (payload.Document, error) {
	return uuidSelector("mpns", "Invalid MPNS APID", id)
}

func uuidSelector(key, message, id string) (payload.Document, error) {
	id = strings.TrimSpace(id)
	// only the canonical 8-4-4-4-12 form is accepted
	parsed, err := uuid.Parse(id)
	if err != nil || len(id) != 36 {
		return nil, uaerrors.NewValueError("audience", key, message, id)
	}
	return payload.Document{key: parsed.String()}, nil
}

// Tag selects devices carrying tag.
func Tag(tag string) payload.Document {
	return payload.Document{"tag": tag}
}

// Alias selects devices registered under alias.
func Alias(alias string) payload.Document {
	return payload.Document{"alias": alias}
}

// Segment selects a saved segment by id.
func Segment(id string) payload.Document {
	return payload.Document{"segment": id}
}

// And selects devices matching every child selector.
func And(children ...any) payload.Document {
	return payload.Document{"and": slices.Clone(children)}
}

// Or selects devices matching any child selector.
func Or(children ...any) payload.Document {
	return payload.Document{"or": slices.Clone(children)}
}

// Not negates a selector.
func Not(child any) payload.Document {
	return payload.Document{"not": child}
}

// LocationRef identifies a location by id or by alias. Exactly one must be
// set.
type LocationRef struct {
	ID    string
	Alias string
}

// Location selects devices seen at ref within date, a RecentDate or
// AbsoluteDate document.
func Location(ref LocationRef, date payload.Document) (payload.Document, error) {
	if (ref.ID == "") == (ref.Alias == "") {
		return nil, uaerrors.NewValueError("audience", "location",
			"Must specify a single location id or alias, and a date range", ref)
	}
	if len(date) == 0 {
		return nil, uaerrors.NewMissingFieldError("audience", "date", "You must specify a date range")
	}
	loc := payload.Document{"date": date}
	if ref.ID != "" {
		loc["id"] = ref.ID
	} else {
		loc["alias"] = ref.Alias
	}
	return payload.Document{"location": loc}, nil
}

// RecentDate selects the last n units, where resolution is one of minutes,
// hours, days, weeks, months or years.
func RecentDate(resolution string, n int) (payload.Document, error) {
	if err := checkResolution(resolution); err != nil {
		return nil, err
	}
	return payload.Document{"recent": payload.Document{resolution: n}}, nil
}

// AbsoluteDate selects the window between start and end at the given
// resolution.
func AbsoluteDate(resolution, start, end string) (payload.Document, error) {
	if err := checkResolution(resolution); err != nil {
		return nil, err
	}
	return payload.Document{resolution: payload.Document{"start": start, "end": end}}, nil
}

func checkResolution(resolution string) error {
	if !slices.Contains(dateResolutions, resolution) {
		return uaerrors.NewValueError("audience", "resolution",
			fmt.Sprintf("Invalid date resolution: %s", resolution), resolution)
	}
	return nil
}
