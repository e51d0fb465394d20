// Package astro provides the time-system conversions and spherical geometry
// shared by the ephemeris providers.
//
// Civil instants are converted to Julian Days (UT), shifted to Terrestrial
// Time with a ΔT estimate, and turned into sidereal time, obliquity and
// nutation of date. From those the Ascendant and Midheaven are solved for a
// geographic location. The ayanāṃśa resolver maps a named sidereal scheme
// and an instant to a tropical-to-sidereal offset in degrees.
//
// All angles are in degrees unless a name says otherwise. Longitudes
// returned by this package are wrapped into [0, 360).
package astro
