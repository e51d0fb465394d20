// Package services implements the driving port interfaces.
// Services hold the chart, normalisation and dataset logic and reach
// calculators only through the provider registry.
//
// Services are pure Go; the native ephemeris library is injected through
// a SwissOpener at bootstrap.
package services
