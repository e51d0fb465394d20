// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EphemerisProvider: Body, house and angle positions for an instant
//   - DatasetStore: Append-only dataset persistence
//   - ConfigStore: Persisted user settings (system weights)
//   - RowProcessor: One named pass over a batch of dataset rows
//
// # Optional Interfaces
//
// These can be nil or left unregistered - the application degrades gracefully:
//
//   - FengShuiProvider, HumanDesignProvider, GeneKeysProvider, QMDJProvider:
//     calculator roles registered at bootstrap
//   - ChineseCalendarProvider, ZWDSProvider: demo implementations only,
//     registered with demo_providers; otherwise provider status reports a
//     remediation hint
//   - EventPublisher: Dataset append notifications. Without a broker a no-op
//     publisher is used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, provider, or normaliser package
package driven
