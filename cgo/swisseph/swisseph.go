//go:build cgo && swisseph

package swisseph

/*
#cgo LDFLAGS: -lswe -lm

#include <stdlib.h>
#include "swephexp.h"
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/custodia-labs/almanac/internal/providers/ephemeris/swiss"
)

// Ensure Library implements the interface.
var _ swiss.Backend = (*Library)(nil)

// Library calls into libswe. The library is process-global, so callers
// must serialise access; swiss.Adapter does.
type Library struct{}

// Open returns the linked library.
func Open() (swiss.Backend, error) {
	return &Library{}, nil
}

// Available reports whether the binding was compiled in.
func Available() bool { return true }

// Version returns the library version string.
func (l *Library) Version() string {
	var buf [C.AS_MAXCH]C.char
	C.swe_version(&buf[0])
	return C.GoString(&buf[0])
}

// SetEphePath sets the directory holding ephemeris files.
func (l *Library) SetEphePath(path string) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	C.swe_set_ephe_path(cpath)
}

// SetJPLFile selects the JPL ephemeris file.
func (l *Library) SetJPLFile(file string) {
	cfile := C.CString(file)
	defer C.free(unsafe.Pointer(cfile))
	C.swe_set_jpl_file(cfile)
}

// SetSidMode sets the global sidereal mode.
func (l *Library) SetSidMode(mode int32) {
	C.swe_set_sid_mode(C.int32(mode), 0, 0)
}

// CalcUT computes one body for a UT Julian Day.
func (l *Library) CalcUT(jdUT float64, body, flags int32) (swiss.Position, error) {
	var xx [6]C.double
	var serr [C.AS_MAXCH]C.char
	if rc := C.swe_calc_ut(C.double(jdUT), C.int32(body), C.int32(flags), &xx[0], &serr[0]); rc < 0 {
		return swiss.Position{}, errors.New(C.GoString(&serr[0]))
	}
	return swiss.Position{
		Longitude:      float64(xx[0]),
		Latitude:       float64(xx[1]),
		Distance:       float64(xx[2]),
		LongitudeSpeed: float64(xx[3]),
		LatitudeSpeed:  float64(xx[4]),
		DistanceSpeed:  float64(xx[5]),
	}, nil
}

// HousesEx2 computes cusps, angles and their speeds.
func (l *Library) HousesEx2(jdUT float64, flags int32, lat, lon float64, hsys byte) (swiss.Houses, error) {
	// libswe writes 37 cusps for Gauquelin sectors.
	var cusps, cuspSpeed [37]C.double
	var ascmc, ascmcSpeed [10]C.double
	var serr [C.AS_MAXCH]C.char
	rc := C.swe_houses_ex2(C.double(jdUT), C.int32(flags), C.double(lat), C.double(lon), C.int(hsys),
		&cusps[0], &ascmc[0], &cuspSpeed[0], &ascmcSpeed[0], &serr[0])
	if rc < 0 {
		msg := C.GoString(&serr[0])
		if msg == "" {
			msg = "house calculation failed"
		}
		return swiss.Houses{}, errors.New(msg)
	}

	var h swiss.Houses
	for i := range h.Cusps {
		h.Cusps[i] = float64(cusps[i+1])
		h.CuspSpeeds[i] = float64(cuspSpeed[i+1])
	}
	for i := range h.Ascmc {
		h.Ascmc[i] = float64(ascmc[i])
		h.AscmcSpeed[i] = float64(ascmcSpeed[i])
	}
	return h, nil
}

// HousePos returns the fractional house position of an ecliptic point.
func (l *Library) HousePos(armc, geoLat, eps float64, hsys byte, lon, lat float64) (float64, error) {
	xpin := [2]C.double{C.double(lon), C.double(lat)}
	var serr [C.AS_MAXCH]C.char
	pos := float64(C.swe_house_pos(C.double(armc), C.double(geoLat), C.double(eps), C.int(hsys), &xpin[0], &serr[0]))
	if msg := C.GoString(&serr[0]); msg != "" {
		return 0, errors.New(msg)
	}
	return pos, nil
}

// Close releases files held by the library.
func (l *Library) Close() {
	C.swe_close()
}
