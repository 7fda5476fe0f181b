// Package payload builds and validates Airship push payload documents.
//
// Every fragment of a push (platform overrides, actions, styles, rich
// messages and so on) has a struct whose Build method checks the supplied
// fields and returns a fresh Document containing exactly those fields.
// Unset fields (nil pointers, nil Documents, nil unions) never reach the
// output. Builders are pure: they hold no state, perform no I/O and never
// mutate their input, so they are safe to call from any goroutine.
//
//	ios, err := payload.IOS{Badge: "+1", Sound: payload.String("cat.caf")}.Build()
//	if err != nil {
//		return err
//	}
//	n, err := payload.Notification{Alert: payload.String("Hello"), IOS: ios}.Build()
package payload

// Document is a JSON-serialisable payload fragment.
type Document map[string]any

// Builder is implemented by every payload fragment.
type Builder interface {
	Build() (Document, error)
}

// String returns a pointer to v, for optional string fields.
func String(v string) *string { return &v }

// Int returns a pointer to v, for optional integer fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for optional boolean fields.
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v, for optional float fields.
func Float(v float64) *float64 { return &v }

func (d Document) putString(key string, v *string) {
	if v != nil {
		d[key] = *v
	}
}

func (d Document) putBool(key string, v *bool) {
	if v != nil {
		d[key] = *v
	}
}

func (d Document) putFloat(key string, v *float64) {
	if v != nil {
		d[key] = *v
	}
}

func (d Document) putDoc(key string, v Document) {
	if v != nil {
		d[key] = v
	}
}

func (d Document) putAny(key string, v any) {
	if v != nil {
		d[key] = v
	}
}
