package driving

import (
	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// ProviderRegistry is a keyed directory of calculator implementations.
// Each role holds at most one implementation; registering again replaces it.
type ProviderRegistry interface {
	// Register installs impl for key. impl must satisfy the capability
	// interface of the role.
	Register(key domain.ProviderKey, impl any) error

	// Unregister removes any implementation for key.
	Unregister(key domain.ProviderKey)

	// Get returns the implementation for key, or a
	// *domain.ProviderUnavailableError carrying a remediation hint.
	Get(key domain.ProviderKey) (any, error)

	// Typed lookups for each role.
	Ephemeris() (driven.EphemerisProvider, error)
	FengShui() (driven.FengShuiProvider, error)
	HumanDesign() (driven.HumanDesignProvider, error)
	GeneKeys() (driven.GeneKeysProvider, error)
	QMDJ() (driven.QMDJProvider, error)
	ChineseCalendar() (driven.ChineseCalendarProvider, error)
	ZWDS() (driven.ZWDSProvider, error)

	// ListStatus reports every role in registry order.
	ListStatus() []domain.ProviderStatus
}
