package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

func TestIOS_Build(t *testing.T) {
	t.Run("full override", func(t *testing.T) {
		got, err := IOS{
			Alert:            "Hello",
			Badge:            "+1",
			Sound:            String("cat.caf"),
			ContentAvailable: true,
			Extra:            Document{"k": "v"},
			Expiry:           3600,
			Category:         String("news"),
			Title:            String("t"),
			MutableContent:   Bool(true),
			Subtitle:         String("s"),
			MediaAttachment:  Document{"url": "https://example.com/a.jpg"},
			Priority:         Int(10),
			CollapseID:       String("c1"),
		}.Build()
		require.NoError(t, err)
		assert.Equal(t, Document{
			"alert":             "Hello",
			"badge":             "+1",
			"sound":             "cat.caf",
			"content-available": 1,
			"extra":             Document{"k": "v"},
			"expiry":            3600,
			"category":          "news",
			"title":             "t",
			"mutable_content":   true,
			"subtitle":          "s",
			"media_attachment":  Document{"url": "https://example.com/a.jpg"},
			"priority":          10,
			"collapse_id":       "c1",
		}, got)
	})

	t.Run("priority", func(t *testing.T) {
		got, err := IOS{Priority: Int(5)}.Build()
		require.NoError(t, err)
		assert.Equal(t, Document{"priority": 5}, got)

		got, err = IOS{Priority: Int(7)}.Build()
		assert.Nil(t, got)
		assert.True(t, uaerrors.IsValueError(err))
		assert.Contains(t, err.Error(), "5 or 10")
	})

	t.Run("content available false is omitted", func(t *testing.T) {
		got, err := IOS{Alert: "x"}.Build()
		require.NoError(t, err)
		assert.NotContains(t, got, "content-available")
	})

	tests := []struct {
		name    string
		ios     IOS
		errCode uaerrors.ErrorCode
	}{
		{"integer badge", IOS{Badge: 3}, ""},
		{"auto badge", IOS{Badge: "auto"}, ""},
		{"bad badge string", IOS{Badge: "three"}, uaerrors.ErrInvalidValue},
		{"float badge", IOS{Badge: 1.5}, uaerrors.ErrInvalidType},
		{"dictionary alert", IOS{Alert: map[string]any{"body": "b"}}, ""},
		{"list alert", IOS{Alert: []string{"a"}}, uaerrors.ErrInvalidType},
		{"string expiry", IOS{Expiry: "2030-01-01T00:00:00"}, ""},
		{"bool expiry", IOS{Expiry: true}, uaerrors.ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.ios.Build()
			if tt.errCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.errCode, uaerrors.GetErrorCode(err))
		})
	}
}

func TestAndroid_Build(t *testing.T) {
	got, err := Android{
		Alert:               String("Hello"),
		CollapseKey:         String("ck"),
		TimeToLive:          "2030-01-01T00:00:00",
		DelayWhileIdle:      true,
		LocalOnly:           Bool(false),
		DeliveryPriority:    String("high"),
		Priority:            Int(-2),
		Category:            String("promo"),
		Visibility:          Int(0),
		NotificationTag:     String("tag"),
		NotificationChannel: String("chan"),
		Icon:                String("icon"),
		IconColor:           String("#00ff99"),
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, Document{
		"alert":                "Hello",
		"collapse_key":         "ck",
		"time_to_live":         "2030-01-01T00:00:00",
		"delay_while_idle":     true,
		"local_only":           false,
		"delivery_priority":    "high",
		"priority":             -2,
		"category":             "promo",
		"visibility":           0,
		"notification_tag":     "tag",
		"notification_channel": "chan",
		"icon":                 "icon",
		"icon_color":           "#00ff99",
	}, got)

	tests := []struct {
		name    string
		android Android
		field   string
		errCode uaerrors.ErrorCode
	}{
		{"ttl of wrong type", Android{TimeToLive: 1.5}, "time_to_live", uaerrors.ErrInvalidType},
		{"delivery priority", Android{DeliveryPriority: String("urgent")}, "delivery_priority", uaerrors.ErrInvalidValue},
		{"priority too high", Android{Priority: Int(3)}, "priority", uaerrors.ErrInvalidValue},
		{"visibility too low", Android{Visibility: Int(-2)}, "visibility", uaerrors.ErrInvalidValue},
		{"category", Android{Category: String("bogus")}, "category", uaerrors.ErrInvalidValue},
		{"icon color", Android{IconColor: String("red")}, "icon_color", uaerrors.ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.android.Build()
			assert.Nil(t, got)
			assert.Equal(t, tt.errCode, uaerrors.GetErrorCode(err))
			assert.Equal(t, tt.field, uaerrors.GetField(err))
		})
	}
}

// Every combination of the unvalidated android fields produces exactly the
// keys that were set.
func TestAndroid_PresenceFiltering(t *testing.T) {
	setters := []struct {
		key string
		set func(*Android)
	}{
		{"alert", func(a *Android) { a.Alert = String("a") }},
		{"collapse_key", func(a *Android) { a.CollapseKey = String("c") }},
		{"extra", func(a *Android) { a.Extra = Document{"k": "v"} }},
		{"interactive", func(a *Android) { a.Interactive = Document{"type": "t"} }},
		{"wearable", func(a *Android) { a.Wearable = Document{} }},
		{"style", func(a *Android) { a.Style = Document{"type": "inbox"} }},
		{"title", func(a *Android) { a.Title = String("t") }},
		{"summary", func(a *Android) { a.Summary = String("s") }},
		{"sound", func(a *Android) { a.Sound = String("s") }},
	}

	for mask := 0; mask < 1<<len(setters); mask++ {
		var a Android
		var want []string
		for i, s := range setters {
			if mask&(1<<i) != 0 {
				s.set(&a)
				want = append(want, s.key)
			}
		}

		got, err := a.Build()
		require.NoError(t, err)
		keys := make([]string, 0, len(got))
		for k := range got {
			keys = append(keys, k)
		}
		assert.ElementsMatch(t, want, keys, "mask %b", mask)
	}
}

func TestAmazon_Build(t *testing.T) {
	got, err := Amazon{
		Alert:            String("Hello"),
		ConsolidationKey: String("ck"),
		ExpiresAfter:     100,
		Title:            String("t"),
		Summary:          String("s"),
		Style:            Document{"type": "big_text", "big_text": "x"},
		Sound:            String("s.mp3"),
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, Document{
		"alert":             "Hello",
		"consolidation_key": "ck",
		"expires_after":     100,
		"title":             "t",
		"summary":           "s",
		"style":             Document{"type": "big_text", "big_text": "x"},
		"sound":             "s.mp3",
	}, got)

	_, err = Amazon{ExpiresAfter: []int{1}}.Build()
	assert.True(t, uaerrors.IsTypeError(err))
}

func TestWeb_Build(t *testing.T) {
	got, err := Web{
		Alert:              String("Hello"),
		Icon:               Document{"url": "https://example.com/icon.png"},
		Title:              String("t"),
		TimeToLive:         60,
		RequireInteraction: Bool(true),
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, Document{
		"alert":               "Hello",
		"icon":                Document{"url": "https://example.com/icon.png"},
		"title":               "t",
		"time_to_live":        60,
		"require_interaction": true,
	}, got)

	_, err = Web{TimeToLive: 1.5}.Build()
	assert.True(t, uaerrors.IsTypeError(err))
}

func TestOpenPlatform_Build(t *testing.T) {
	got, err := OpenPlatform{
		Alert:           String("Hello"),
		Title:           String("t"),
		Summary:         String("s"),
		MediaAttachment: String("https://example.com/v.mp4"),
		Interactive:     Document{"type": "ua_yes_no_foreground"},
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, Document{
		"alert":            "Hello",
		"title":            "t",
		"summary":          "s",
		"media_attachment": "https://example.com/v.mp4",
		"interactive":      Document{"type": "ua_yes_no_foreground"},
	}, got)
}

func TestWNS_Build(t *testing.T) {
	got, err := WNS{Alert: String("Hello")}.Build()
	require.NoError(t, err)
	assert.Equal(t, Document{"alert": "Hello"}, got)

	got, err = WNS{Tile: Document{"id": "t"}}.Build()
	require.NoError(t, err)
	assert.Equal(t, Document{"tile": Document{"id": "t"}}, got)

	_, err = WNS{}.Build()
	assert.True(t, uaerrors.IsMissingField(err))

	_, err = WNS{Alert: String("a"), Toast: Document{}}.Build()
	assert.True(t, uaerrors.IsValueError(err))
	assert.Contains(t, err.Error(), "one notification type")
}
