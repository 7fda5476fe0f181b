package payload

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

const (
	maxCampaignCategories   = 10
	maxCampaignCategoryName = 64

	// DeviceTypeAll targets every platform.
	DeviceTypeAll = "all"
	// OpenPlatformPrefix prefixes open channel device types and notification keys.
	OpenPlatformPrefix = "open::"
)

var validDeviceTypes = []string{"ios", "android", "amazon", "wns", "web"}

// Campaigns groups a push under one or more reporting categories.
type Campaigns struct {
	// Categories is a string or a list of 1 to 10 strings, each 1 to 64
	// characters long.
	Categories any `yaml:"categories"`
}

// Build returns the campaigns document. Categories is always emitted as a
// list.
func (c Campaigns) Build() (Document, error) {
	out := Document{}
	if c.Categories == nil {
		return out, nil
	}

	var categories []string
	if s, ok := c.Categories.(string); ok {
		categories = []string{s}
	} else {
		n, isList := listLength(c.Categories)
		if !isList {
			return nil, uaerrors.NewTypeError("campaigns", "categories",
				"categories must be a string or list of strings", c.Categories)
		}
		if n == 0 || n > maxCampaignCategories {
			return nil, uaerrors.NewValueError("campaigns", "categories",
				fmt.Sprintf("Categories list must contain between 1 and %d items", maxCampaignCategories), c.Categories)
		}
		list, ok := stringList(c.Categories)
		if !ok {
			return nil, uaerrors.NewValueError("campaigns", "categories", "Invalid category type", c.Categories)
		}
		categories = list
	}

	for _, name := range categories {
		if n := utf8.RuneCountInString(name); n == 0 || n > maxCampaignCategoryName {
			return nil, uaerrors.NewValueError("campaigns", "categories",
				fmt.Sprintf("Invalid category name '%s'", name), name)
		}
	}
	out["categories"] = categories
	return out, nil
}

// Options carries non-payload push options.
type Options struct {
	// Expiry is the time after which the push is no longer sent: seconds as
	// an integer, or a UTC timestamp string. It is mandatory.
	Expiry any `yaml:"expiry"`
}

// Build returns the options document.
func (o Options) Build() (Document, error) {
	if o.Expiry == nil {
		return nil, uaerrors.NewMissingFieldError("options", "expiry",
			"Expiry value must be an integer or time set in UTC as a string")
	}
	if err := checkStringOrInt("options", "expiry", o.Expiry,
		"Expiry value must be an integer or time set in UTC as a string"); err != nil {
		return nil, err
	}
	return Document{"expiry": o.Expiry}, nil
}

// DeviceTypes builds the device_types selector of a push. A single "all"
// yields the scalar "all"; otherwise every entry must be a known platform or
// an open:: channel and the result is the list in the given order.
func DeviceTypes(types []string) (any, error) {
	if len(types) == 1 && types[0] == DeviceTypeAll {
		return DeviceTypeAll, nil
	}
	if len(types) == 0 {
		return nil, uaerrors.NewMissingFieldError("device_types", "device_types", "at least one device type is required")
	}
	for _, t := range types {
		if !slices.Contains(validDeviceTypes, t) && !strings.HasPrefix(t, OpenPlatformPrefix) {
			return nil, uaerrors.NewValueError("device_types", "device_types",
				fmt.Sprintf("Invalid device type '%s'", t), t)
		}
	}
	return slices.Clone(types), nil
}
