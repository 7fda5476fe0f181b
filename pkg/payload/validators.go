package payload

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

var (
	// Valid autobadge values: auto, +N, -N
	validAutobadge = regexp.MustCompile(`^(auto|[+-][\d]+)$`)
	validIconColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

	validAndroidCategories = []string{
		"alarm", "call", "email", "err", "event", "msg", "promo",
		"recommendation", "service", "social", "status", "sys", "transport",
	}
)

// AndroidCategories returns the accepted android category values.
func AndroidCategories() []string {
	return slices.Clone(validAndroidCategories)
}

// ValidateAutobadge checks an iOS autobadge string: auto, +N or -N.
func ValidateAutobadge(v string) error {
	if err := checkAutobadge("ios", "badge", v); err != nil {
		return err
	}
	return nil
}

// ValidateAndroidCategory checks v against the android category whitelist.
func ValidateAndroidCategory(v string) error {
	if err := checkAndroidCategory("android", "category", v); err != nil {
		return err
	}
	return nil
}

// ValidateHexColor checks v is '#' followed by six lowercase hex digits.
func ValidateHexColor(v string) error {
	if err := checkHexColor("android", "icon_color", v); err != nil {
		return err
	}
	return nil
}

// ValidateRange checks lo <= v <= hi. Errors carry the "payload" component.
func ValidateRange(field string, v, lo, hi int) error {
	if err := checkRange("payload", field, v, lo, hi); err != nil {
		return err
	}
	return nil
}

func checkAutobadge(component, field, v string) *uaerrors.PushError {
	if !validAutobadge.MatchString(v) {
		return uaerrors.NewValueError(component, field, "Invalid iOS autobadge value", v)
	}
	return nil
}

func checkAndroidCategory(component, field, v string) *uaerrors.PushError {
	if !slices.Contains(validAndroidCategories, v) {
		return uaerrors.NewValueError(component, field,
			fmt.Sprintf("category must be set to one of %s.", strings.Join(validAndroidCategories, ", ")), v)
	}
	return nil
}

func checkHexColor(component, field, v string) *uaerrors.PushError {
	if !validIconColor.MatchString(v) {
		return uaerrors.NewValueError(component, field, field+" must be in format #rrggbb", v)
	}
	return nil
}

// maxListedRange is the widest span whose values are spelled out in an error.
const maxListedRange = 10

func checkRange(component, field string, v, lo, hi int) *uaerrors.PushError {
	if lo > hi {
		return uaerrors.NewValueError(component, field,
			fmt.Sprintf("%s has an empty range %d..%d", field, lo, hi), v)
	}
	if v >= lo && v <= hi {
		return nil
	}
	// hi-lo can overflow for extreme bounds; a negative span is never small.
	if span := hi - lo; span >= 0 && span <= maxListedRange {
		allowed := make([]string, 0, span+1)
		for i := lo; i <= hi; i++ {
			allowed = append(allowed, fmt.Sprint(i))
		}
		return uaerrors.NewValueError(component, field,
			fmt.Sprintf("%s must be set to one of %s.", field, strings.Join(allowed, ", ")), v)
	}
	return uaerrors.NewValueError(component, field,
		fmt.Sprintf("%s must be between %d and %d", field, lo, hi), v)
}

// isInteger reports whether v holds any Go integer kind.
func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isMapping(v any) bool {
	switch v.(type) {
	case Document, map[string]any:
		return true
	}
	return false
}

// checkStringOrInt accepts expiry / ttl style values: an integer number of
// seconds or a UTC timestamp string.
func checkStringOrInt(component, field string, v any, message string) *uaerrors.PushError {
	if _, ok := v.(string); ok || isInteger(v) {
		return nil
	}
	return uaerrors.NewTypeError(component, field, message, v)
}

// listLength returns the length of a []string or []any.
func listLength(v any) (int, bool) {
	switch t := v.(type) {
	case []string:
		return len(t), true
	case []any:
		return len(t), true
	}
	return 0, false
}

// stringList normalises a list of strings given as []string or []any.
// ok is false when v is not a list or holds a non-string element.
func stringList(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t), true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, isStr := item.(string)
			if !isStr {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// checkTags accepts a single string or a non-empty list of strings.
func checkTags(component, field string, v any) (any, *uaerrors.PushError) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	list, ok := stringList(v)
	if !ok {
		return nil, uaerrors.NewTypeError(component, field, field+" must be a string or a list of strings", v)
	}
	if len(list) == 0 {
		return nil, uaerrors.NewValueError(component, field, field+" list cannot be empty", v)
	}
	return list, nil
}
