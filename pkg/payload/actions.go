package payload

import (
	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

// Actions describes tasks performed when a notification is opened.
type Actions struct {
	// AddTag and RemoveTag take a string or a non-empty list of strings.
	AddTag    any `yaml:"add_tag"`
	RemoveTag any `yaml:"remove_tag"`
	// Open expects "type" (url, deep_link, landing_page) and "content".
	Open       Document `yaml:"open"`
	Share      *string  `yaml:"share"`
	AppDefined Document `yaml:"app_defined"`
}

// Build validates the actions and returns the actions document.
func (a Actions) Build() (Document, error) {
	out := Document{}
	if a.AddTag != nil {
		tags, err := checkTags("actions", "add_tag", a.AddTag)
		if err != nil {
			return nil, err
		}
		out["add_tag"] = tags
	}
	if a.RemoveTag != nil {
		tags, err := checkTags("actions", "remove_tag", a.RemoveTag)
		if err != nil {
			return nil, err
		}
		out["remove_tag"] = tags
	}
	out.putDoc("open", a.Open)
	out.putString("share", a.Share)
	out.putDoc("app_defined", a.AppDefined)
	return out, nil
}

// Interactive selects a predefined or custom interactive notification type
// and maps its button IDs to action documents.
type Interactive struct {
	Type          string   `yaml:"type"`
	ButtonActions Document `yaml:"button_actions"`
}

// Build returns the interactive document. Type is mandatory.
func (i Interactive) Build() (Document, error) {
	if i.Type == "" {
		return nil, uaerrors.NewMissingFieldError("interactive", "type", "'interactive' must have a type attribute")
	}
	out := Document{"type": i.Type}
	out.putDoc("button_actions", i.ButtonActions)
	return out, nil
}
