package tzif

import (
	"errors"
	"fmt"
)

// Validate checks d against the RFC 8536 invariants and reports every
// violation found, joined into one error.
func Validate(d Data) error {
	var errs []error
	switch d.Version {
	case V1, V2, V3, V4:
	default:
		errs = append(errs, fmt.Errorf("undefined version octet %#02x", byte(d.Version)))
	}

	errs = append(errs, validateBlock("v1", d.V1)...)
	if d.Version > V1 {
		errs = append(errs, validateBlock("v2", d.V2)...)
	} else {
		if len(d.V2.TransitionTimes) > 0 || len(d.V2.Types) > 0 {
			errs = append(errs, fmt.Errorf("version 1 file carries a v2 data block"))
		}
		if d.Footer != "" {
			errs = append(errs, fmt.Errorf("version 1 file carries a footer"))
		}
	}
	return errors.Join(errs...)
}

func validateBlock(name string, b Block) []error {
	var errs []error

	if len(b.Types) == 0 {
		errs = append(errs, fmt.Errorf("%s: typecnt must not be zero", name))
	}
	if len(b.Designations) == 0 {
		errs = append(errs, fmt.Errorf("%s: charcnt must not be zero", name))
	} else if b.Designations[len(b.Designations)-1] != 0 {
		errs = append(errs, fmt.Errorf("%s: time zone designations missing null terminator", name))
	}

	if times, types := len(b.TransitionTimes), len(b.TransitionTypes); times != types {
		errs = append(errs, fmt.Errorf("%s: inconsistent transitions: %d times, %d type indices", name, times, types))
	}
	for i := 1; i < len(b.TransitionTimes); i++ {
		if b.TransitionTimes[i] <= b.TransitionTimes[i-1] {
			errs = append(errs, fmt.Errorf("%s: transition times not strictly ascending at index %d", name, i))
			break
		}
	}
	for i, idx := range b.TransitionTypes {
		if int(idx) >= len(b.Types) {
			errs = append(errs, fmt.Errorf("%s: transition type index %d at position %d out of range [0, %d)", name, idx, i, len(b.Types)))
			break
		}
	}
	for i, t := range b.Types {
		if int(t.Index) >= len(b.Designations) {
			errs = append(errs, fmt.Errorf("%s: designation index %d of type %d out of range [0, %d)", name, t.Index, i, len(b.Designations)))
		}
	}

	for i := 1; i < len(b.LeapSeconds); i++ {
		if b.LeapSeconds[i].Occur <= b.LeapSeconds[i-1].Occur {
			errs = append(errs, fmt.Errorf("%s: leap second occurrences not strictly ascending at index %d", name, i))
			break
		}
	}

	if n := len(b.StandardIndicators); n != 0 && n != len(b.Types) {
		errs = append(errs, fmt.Errorf("%s: isstdcnt (%d) must be 0 or equal to typecnt (%d)", name, n, len(b.Types)))
	}
	if n := len(b.UTIndicators); n != 0 && n != len(b.Types) {
		errs = append(errs, fmt.Errorf("%s: isutcnt (%d) must be 0 or equal to typecnt (%d)", name, n, len(b.Types)))
	}
	for i := range b.UTIndicators {
		if b.UTIndicators[i] && i < len(b.StandardIndicators) && !b.StandardIndicators[i] {
			errs = append(errs, fmt.Errorf("%s: UT indicator %d set without matching standard indicator", name, i))
		}
	}
	return errs
}
