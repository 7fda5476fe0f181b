package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

func TestNotification_Build(t *testing.T) {
	ios, err := IOS{Badge: "+1", Sound: String("cat.caf")}.Build()
	require.NoError(t, err)
	android, err := Android{Alert: String("Android hello")}.Build()
	require.NoError(t, err)
	sms, err := OpenPlatform{Alert: String("sms hello")}.Build()
	require.NoError(t, err)

	got, err := Notification{
		Alert:         String("Hello"),
		IOS:           ios,
		Android:       android,
		OpenPlatforms: map[string]Document{"sms": sms},
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, Document{
		"alert":     "Hello",
		"ios":       Document{"badge": "+1", "sound": "cat.caf"},
		"android":   Document{"alert": "Android hello"},
		"open::sms": Document{"alert": "sms hello"},
	}, got)
}

func TestNotification_Empty(t *testing.T) {
	got, err := Notification{}.Build()
	assert.Nil(t, got)
	assert.True(t, uaerrors.IsEmptyPayload(err))
	assert.Contains(t, err.Error(), "Notification body may not be empty")

	_, err = Notification{OpenPlatforms: map[string]Document{}}.Build()
	assert.True(t, uaerrors.IsEmptyPayload(err))
}

func TestNotification_NilOpenPlatformSkipped(t *testing.T) {
	_, err := Notification{OpenPlatforms: map[string]Document{"sms": nil}}.Build()
	assert.True(t, uaerrors.IsEmptyPayload(err))

	got, err := Notification{
		Alert:         String("hi"),
		OpenPlatforms: map[string]Document{"sms": nil, "email": {"alert": "x"}},
	}.Build()
	require.NoError(t, err)
	assert.NotContains(t, got, "open::sms")
	assert.Equal(t, Document{"alert": "x"}, got["open::email"])
}

func TestNotification_EmptyOpenPlatformName(t *testing.T) {
	_, err := Notification{OpenPlatforms: map[string]Document{"": {"alert": "x"}}}.Build()
	assert.True(t, uaerrors.IsValueError(err))
}

func TestNotification_SinglePlatform(t *testing.T) {
	for _, n := range []Notification{
		{Alert: String("a")},
		{IOS: Document{}},
		{Android: Document{}},
		{Amazon: Document{}},
		{Web: Document{}},
		{WNS: Document{"alert": "a"}},
		{Actions: Document{"share": "s"}},
		{Interactive: Document{"type": "t"}},
		{InApp: Document{"alert": "a"}},
	} {
		got, err := n.Build()
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	builders := map[string]Builder{
		"ios":          IOS{Alert: "a", Badge: 2, Priority: Int(10)},
		"android":      Android{Alert: String("a"), Priority: Int(1)},
		"amazon":       Amazon{Alert: String("a")},
		"web":          Web{Alert: String("a")},
		"wns":          WNS{Alert: String("a")},
		"open":         OpenPlatform{Alert: String("a")},
		"actions":      Actions{AddTag: []string{"a"}},
		"interactive":  Interactive{Type: "t"},
		"style":        Style{Type: StyleBigText, Content: "x"},
		"campaigns":    Campaigns{Categories: []string{"a"}},
		"options":      Options{Expiry: 10},
		"message":      Message{Title: "t", Body: "b"},
		"in_app":       InApp{Alert: "a", DisplayType: "banner"},
		"notification": Notification{Alert: String("a")},
	}

	for name, b := range builders {
		t.Run(name, func(t *testing.T) {
			first, err := b.Build()
			require.NoError(t, err)
			second, err := b.Build()
			require.NoError(t, err)
			assert.Equal(t, first, second)

			// each call returns a fresh document
			first["mutated"] = true
			assert.NotContains(t, second, "mutated")
		})
	}
}

func TestDocument_JSON(t *testing.T) {
	ios, err := IOS{ContentAvailable: true, Badge: "auto"}.Build()
	require.NoError(t, err)
	n, err := Notification{IOS: ios}.Build()
	require.NoError(t, err)

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ios":{"content-available":1,"badge":"auto"}}`, string(data))
}

func TestNotification_DoesNotMutateInputs(t *testing.T) {
	ios := Document{"alert": "a"}
	_, err := Notification{IOS: ios}.Build()
	require.NoError(t, err)
	assert.Equal(t, Document{"alert": "a"}, ios)
}
