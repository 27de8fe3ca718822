package feed

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gamedex/backend/internal/models"
)

// RawEntry is one game entry as the external feeds ship it. The feeds are
// not strict about types (numeric ids, missing fields), so every field is
// decoded loosely and converted best-effort.
type RawEntry struct {
	Name        any `json:"name"`
	AppID       any `json:"app_id"`
	BundleID    any `json:"bundle_id"`
	Version     any `json:"version"`
	PublisherID any `json:"publisher_id"`
}

// stringify renders a loosely typed feed value as a string. Floats that are
// really integers (the usual JSON decoding of an id) keep their integer form.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// idString converts an id-like field, treating absent, empty and zero values
// as unknown.
func idString(v any) *string {
	if v == nil {
		return nil
	}
	if f, ok := v.(float64); ok && f == 0 {
		return nil
	}
	s := stringify(v)
	if s == "" {
		return nil
	}
	return &s
}

// optString converts an optional text field, keeping absence as nil.
func optString(v any) *string {
	if v == nil {
		return nil
	}
	s := stringify(v)
	return &s
}

// Normalize maps one feed entry onto the catalog's record shape. It never
// fails: optional fields degrade to nil and an absent name stays empty, to
// be rejected by the store at write time. Imported games are always marked
// published.
func Normalize(entry RawEntry, platform models.Platform) models.Game {
	return models.Game{
		Name:        stringify(entry.Name),
		Platform:    platform,
		StoreID:     idString(entry.AppID),
		BundleID:    optString(entry.BundleID),
		AppVersion:  optString(entry.Version),
		IsPublished: true,
		PublisherID: idString(entry.PublisherID),
	}
}
