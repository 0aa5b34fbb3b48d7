package common

import "strings"

// InRange reports whether lo <= v <= hi
func InRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

// OneOf reports whether s matches one of options, ignoring case
func OneOf(s string, options ...string) bool {
	for _, o := range options {
		if strings.EqualFold(s, o) {
			return true
		}
	}
	return false
}
