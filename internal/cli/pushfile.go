package cli

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
	"github.com/kart-io/uapush/pkg/payload"
	"github.com/kart-io/uapush/pkg/push"
)

// pushFile is the on-disk form of a push. JSON files are read through the
// same decoder since JSON is a subset of YAML.
type pushFile struct {
	Audience     any                `yaml:"audience"`
	DeviceTypes  any                `yaml:"device_types"`
	Notification *notificationFile  `yaml:"notification"`
	Options      *payload.Options   `yaml:"options"`
	Campaigns    *payload.Campaigns `yaml:"campaigns"`
	Message      *payload.Message   `yaml:"message"`
	InApp        *payload.InApp     `yaml:"in_app"`
}

type notificationFile struct {
	Alert        *string                         `yaml:"alert"`
	IOS          *payload.IOS                    `yaml:"ios"`
	Android      *payload.Android                `yaml:"android"`
	Amazon       *payload.Amazon                 `yaml:"amazon"`
	Web          *payload.Web                    `yaml:"web"`
	WNS          *payload.WNS                    `yaml:"wns"`
	Actions      *payload.Actions                `yaml:"actions"`
	Interactive  *payload.Interactive            `yaml:"interactive"`
	InApp        *payload.InApp                  `yaml:"in_app"`
	OpenPlatform map[string]payload.OpenPlatform `yaml:"open_platform"`
}

func readPushFile(path string) (*pushFile, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, uaerrors.Wrapf(err, uaerrors.ErrInvalidConfig, "cannot read push file %s", path)
	}
	return decodePushFile(data)
}

func decodePushFile(data []byte) (*pushFile, error) {
	var f pushFile
	if err := strictDecode(data, &f); err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrDeserializationFailed, "invalid push file")
	}
	return &f, nil
}

func strictDecode(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// rebuild runs the builder T over a raw nested mapping so nested fragments
// get the same validation as top-level ones.
func rebuild[T payload.Builder](doc payload.Document) (payload.Document, error) {
	if doc == nil {
		return nil, nil
	}
	raw, err := yaml.Marshal(map[string]any(doc))
	if err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrSerializationFailed, "cannot re-encode nested fragment")
	}
	var b T
	if err := strictDecode(raw, &b); err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrDeserializationFailed, "invalid nested fragment")
	}
	return b.Build()
}

// toPush builds every fragment and assembles the push.
func (f *pushFile) toPush(p *push.Push) error {
	if f.Audience == nil {
		return uaerrors.NewMissingFieldError("push", "audience", "push file has no audience")
	}
	p.Audience = f.Audience

	types, err := deviceTypeList(f.DeviceTypes)
	if err != nil {
		return err
	}
	if p.DeviceTypes, err = payload.DeviceTypes(types); err != nil {
		return err
	}

	if f.Notification != nil {
		if p.Notification, err = f.Notification.build(); err != nil {
			return err
		}
	}
	if f.Options != nil {
		if p.Options, err = f.Options.Build(); err != nil {
			return err
		}
	}
	if f.Campaigns != nil {
		if p.Campaigns, err = f.Campaigns.Build(); err != nil {
			return err
		}
	}
	if f.Message != nil {
		msg := *f.Message
		if msg.Campaigns, err = rebuild[payload.Campaigns](msg.Campaigns); err != nil {
			return err
		}
		if p.Message, err = msg.Build(); err != nil {
			return err
		}
	}
	if f.InApp != nil {
		if p.InApp, err = buildInApp(*f.InApp); err != nil {
			return err
		}
	}
	return nil
}

func deviceTypeList(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{t}, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, uaerrors.NewTypeError("device_types", "device_types", "device types must be strings", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, uaerrors.NewTypeError("device_types", "device_types", "device_types must be a string or list", v)
}

func (n *notificationFile) build() (payload.Document, error) {
	var (
		out payload.Notification
		err error
	)
	out.Alert = n.Alert

	if n.IOS != nil {
		ios := *n.IOS
		if ios.Interactive, err = rebuild[payload.Interactive](ios.Interactive); err != nil {
			return nil, err
		}
		if ios.MediaAttachment, err = buildMediaAttachment(ios.MediaAttachment); err != nil {
			return nil, err
		}
		if out.IOS, err = ios.Build(); err != nil {
			return nil, err
		}
	}

	if n.Android != nil {
		android := *n.Android
		if android.Interactive, err = rebuild[payload.Interactive](android.Interactive); err != nil {
			return nil, err
		}
		if android.Style, err = rebuild[payload.Style](android.Style); err != nil {
			return nil, err
		}
		if android.PublicNotification, err = rebuild[payload.PublicNotification](android.PublicNotification); err != nil {
			return nil, err
		}
		if android.Wearable, err = buildWearable(android.Wearable); err != nil {
			return nil, err
		}
		if out.Android, err = android.Build(); err != nil {
			return nil, err
		}
	}

	if n.Amazon != nil {
		amazon := *n.Amazon
		if amazon.Interactive, err = rebuild[payload.Interactive](amazon.Interactive); err != nil {
			return nil, err
		}
		if amazon.Style, err = rebuild[payload.Style](amazon.Style); err != nil {
			return nil, err
		}
		if out.Amazon, err = amazon.Build(); err != nil {
			return nil, err
		}
	}

	if n.Web != nil {
		web := *n.Web
		if web.Interactive, err = rebuild[payload.Interactive](web.Interactive); err != nil {
			return nil, err
		}
		if out.Web, err = web.Build(); err != nil {
			return nil, err
		}
	}

	if n.WNS != nil {
		if out.WNS, err = n.WNS.Build(); err != nil {
			return nil, err
		}
	}
	if n.Actions != nil {
		if out.Actions, err = n.Actions.Build(); err != nil {
			return nil, err
		}
	}
	if n.Interactive != nil {
		if out.Interactive, err = n.Interactive.Build(); err != nil {
			return nil, err
		}
	}
	if n.InApp != nil {
		if out.InApp, err = buildInApp(*n.InApp); err != nil {
			return nil, err
		}
	}

	if len(n.OpenPlatform) > 0 {
		out.OpenPlatforms = make(map[string]payload.Document, len(n.OpenPlatform))
		for name, op := range n.OpenPlatform {
			if op.Interactive, err = rebuild[payload.Interactive](op.Interactive); err != nil {
				return nil, err
			}
			if out.OpenPlatforms[name], err = op.Build(); err != nil {
				return nil, err
			}
		}
	}

	return out.Build()
}

func buildInApp(in payload.InApp) (payload.Document, error) {
	var err error
	if in.Actions, err = rebuild[payload.Actions](in.Actions); err != nil {
		return nil, err
	}
	if in.Interactive, err = rebuild[payload.Interactive](in.Interactive); err != nil {
		return nil, err
	}
	return in.Build()
}

func buildWearable(doc payload.Document) (payload.Document, error) {
	if doc == nil {
		return nil, nil
	}
	doc = maps.Clone(doc)
	if interactive, ok := doc["interactive"].(map[string]any); ok {
		built, err := rebuild[payload.Interactive](interactive)
		if err != nil {
			return nil, err
		}
		doc["interactive"] = built
	}
	return rebuild[payload.Wearable](doc)
}

func buildMediaAttachment(doc payload.Document) (payload.Document, error) {
	if doc == nil {
		return nil, nil
	}
	doc = maps.Clone(doc)
	if content, ok := doc["content"].(map[string]any); ok {
		built, err := rebuild[payload.Content](content)
		if err != nil {
			return nil, err
		}
		doc["content"] = built
	}
	if options, ok := doc["options"].(map[string]any); ok {
		options = maps.Clone(options)
		if crop, ok := options["crop"].(map[string]any); ok {
			built, err := rebuild[payload.Crop](crop)
			if err != nil {
				return nil, err
			}
			options["crop"] = built
		}
		doc["options"] = options
	}
	return rebuild[payload.MediaAttachment](doc)
}
