// Package swisseph provides CGO bindings for the Swiss Ephemeris library.
// It implements the swiss.Backend interface.
//
// Build requires:
//   - libswe and swephexp.h installed where the C toolchain can find them
//   - the swisseph build tag (go build -tags swisseph)
//
// Without the tag, Open reports that the library is unavailable and the
// analytic engine is used instead.
package swisseph
