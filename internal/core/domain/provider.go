package domain

// ProviderKey names a calculator role in the registry.
type ProviderKey string

// Calculator roles.
const (
	ProviderEphemeris       ProviderKey = "ephemeris"
	ProviderChineseCalendar ProviderKey = "chineseCalendar"
	ProviderZWDS            ProviderKey = "zwds"
	ProviderQMDJ            ProviderKey = "qmdj"
	ProviderFS              ProviderKey = "fs"
	ProviderHD              ProviderKey = "hd"
	ProviderGK              ProviderKey = "gk"
)

// AllProviderKeys returns every role in registry order.
func AllProviderKeys() []ProviderKey {
	return []ProviderKey{
		ProviderEphemeris, ProviderChineseCalendar, ProviderZWDS,
		ProviderQMDJ, ProviderFS, ProviderHD, ProviderGK,
	}
}

// IsValid returns true if the key names a known role.
func (k ProviderKey) IsValid() bool {
	for _, key := range AllProviderKeys() {
		if key == k {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (k ProviderKey) String() string {
	return string(k)
}

// ProviderInfo is the static description of a role.
type ProviderInfo struct {
	Key         ProviderKey
	Name        string
	Description string
	Hint        string
}

// ProviderInfoFor returns the description and remediation hint for a role.
func ProviderInfoFor(key ProviderKey) ProviderInfo {
	switch key {
	case ProviderEphemeris:
		return ProviderInfo{key, "EphemerisProvider",
			"Computes planetary positions, houses, and sidereal metrics.",
			"Enable swiss.enabled with a data path, or select the analytic engine via ephemeris.engine."}
	case ProviderChineseCalendar:
		return ProviderInfo{key, "ChineseCalendarProvider",
			"Derives sexagenary pillars and luck cycles.",
			"Attach a licensed Chinese calendar implementation and register it under chineseCalendar."}
	case ProviderZWDS:
		return ProviderInfo{key, "ZWDSProvider",
			"Generates Zi Wei Dou Shu palace readings.",
			"Register a Zi Wei Dou Shu calculator implementation under zwds."}
	case ProviderQMDJ:
		return ProviderInfo{key, "QMDJProvider",
			"Builds Qi Men Dun Jia boards for selected schools/arrangements.",
			"Register a Qi Men Dun Jia engine under qmdj before requesting data."}
	case ProviderFS:
		return ProviderInfo{key, "FSProvider",
			"Calculates Flying Stars and Eight Mansions outputs.",
			"Register a Feng Shui provider under fs to enable calculations."}
	case ProviderHD:
		return ProviderInfo{key, "HDProvider",
			"Computes Human Design BodyGraph centres, type, and authority.",
			"Register a Human Design provider under hd; it requires an ephemeris provider."}
	case ProviderGK:
		return ProviderInfo{key, "GKProvider",
			"Generates Gene Keys hologenetic profiles.",
			"Register a Gene Keys provider under gk; it requires an ephemeris provider."}
	default:
		return ProviderInfo{Key: key, Name: unknownDescription, Hint: "Unknown provider key."}
	}
}

// ProviderStatus reports whether a role currently has an implementation.
type ProviderStatus struct {
	Key         ProviderKey `json:"key"`
	Registered  bool        `json:"registered"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ErrorHint   string      `json:"errorHint"`
}
