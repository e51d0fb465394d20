package driven

import (
	"strconv"
	"strings"
)

// ConfigStore persists user settings under dotted keys such as "weights.HD".
type ConfigStore interface {
	// Get returns the raw value stored under key.
	Get(key string) (any, bool)

	// GetFloat returns the value under key as a number, or 0 when the key
	// is missing or not numeric. See SettingFloat.
	GetFloat(key string) float64

	Set(key string, value any) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Save persists pending changes; Load discards them in favour of the
	// persisted state.
	Save() error
	Load() error

	// Path identifies the backing file.
	Path() string
}

// SettingFloat converts a stored setting to a number. Hand-edited TOML
// yields int64 for `HD = 1` and a string for `HD = "0.7"`; both count.
func SettingFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
