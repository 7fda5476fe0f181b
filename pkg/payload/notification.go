package payload

import (
	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

// Notification is the top-level notification object of a push. Platform
// fields hold documents produced by the matching builders and are embedded
// unchanged.
type Notification struct {
	// Alert is a simple text alert applied to every platform.
	Alert       *string  `yaml:"alert"`
	IOS         Document `yaml:"ios"`
	Android     Document `yaml:"android"`
	Amazon      Document `yaml:"amazon"`
	Web         Document `yaml:"web"`
	WNS         Document `yaml:"wns"`
	Actions     Document `yaml:"actions"`
	Interactive Document `yaml:"interactive"`
	InApp       Document `yaml:"in_app"`
	// OpenPlatforms maps an open channel name to its override. Each entry is
	// emitted as "open::<name>"; nil overrides are skipped.
	OpenPlatforms map[string]Document `yaml:"open_platform"`
}

// Build returns the notification document. At least one field must be set.
func (n Notification) Build() (Document, error) {
	out := Document{}
	out.putString("alert", n.Alert)
	out.putDoc("actions", n.Actions)
	out.putDoc("ios", n.IOS)
	out.putDoc("android", n.Android)
	out.putDoc("amazon", n.Amazon)
	out.putDoc("web", n.Web)
	out.putDoc("wns", n.WNS)
	out.putDoc("interactive", n.Interactive)
	out.putDoc("in_app", n.InApp)
	for name, overrides := range n.OpenPlatforms {
		if name == "" {
			return nil, uaerrors.NewValueError("notification", "open_platform",
				"open platform name may not be empty", name)
		}
		if overrides == nil {
			continue
		}
		out[OpenPlatformPrefix+name] = overrides
	}
	if len(out) == 0 {
		return nil, uaerrors.NewEmptyPayloadError("notification", "Notification body may not be empty")
	}
	return out, nil
}
