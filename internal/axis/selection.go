package axis

import (
	"errors"
	"fmt"
)

var ErrUnknownAxis = errors.New("axis: axis is not available")

// Selection tracks the available axes and the current X/Y choice. An empty
// string means nothing is selected.
type Selection struct {
	available []string
	x, y      string
}

func (s *Selection) X() string { return s.x }
func (s *Selection) Y() string { return s.y }

// Available returns a copy of the available axes.
func (s *Selection) Available() []string {
	return append([]string(nil), s.available...)
}

// Complete reports whether both axes are selected.
func (s *Selection) Complete() bool { return s.x != "" && s.y != "" }

// Update replaces the available axes and reassigns any selection that is no
// longer available: X falls back to the first axis, Y to the first axis other
// than X, or to X when only one axis exists. It reports whether the available
// set or the selection changed.
func (s *Selection) Update(available []string) bool {
	if equalStrings(s.available, available) && s.contains(s.x) && s.contains(s.y) {
		return false
	}

	prevX, prevY := s.x, s.y
	changed := !equalStrings(s.available, available)
	s.available = append([]string(nil), available...)

	if !s.contains(s.x) {
		s.x = ""
		if len(s.available) > 0 {
			s.x = s.available[0]
		}
	}

	if !s.contains(s.y) {
		s.y = s.x
		for _, a := range s.available {
			if a != s.x {
				s.y = a
				break
			}
		}
	}

	return changed || prevX != s.x || prevY != s.y
}

// Set selects x and y; both must be available.
func (s *Selection) Set(x, y string) error {
	if !s.contains(x) {
		return fmt.Errorf("%w: %q", ErrUnknownAxis, x)
	}
	if !s.contains(y) {
		return fmt.Errorf("%w: %q", ErrUnknownAxis, y)
	}
	s.x, s.y = x, y
	return nil
}

// CycleX moves the X selection by step positions through the available axes.
func (s *Selection) CycleX(step int) bool {
	next, ok := s.cycle(s.x, step)
	if !ok || next == s.x {
		return false
	}
	s.x = next
	return true
}

func (s *Selection) CycleY(step int) bool {
	next, ok := s.cycle(s.y, step)
	if !ok || next == s.y {
		return false
	}
	s.y = next
	return true
}

func (s *Selection) cycle(current string, step int) (string, bool) {
	n := len(s.available)
	if n == 0 {
		return "", false
	}
	idx := 0
	for i, a := range s.available {
		if a == current {
			idx = i
			break
		}
	}
	idx = ((idx+step)%n + n) % n
	return s.available[idx], true
}

// contains treats the empty selection as valid only when nothing is available.
func (s *Selection) contains(name string) bool {
	if name == "" {
		return len(s.available) == 0
	}
	for _, a := range s.available {
		if a == name {
			return true
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
