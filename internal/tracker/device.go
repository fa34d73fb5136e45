package tracker

import "strings"

// Direction is the logical direction a badge device represents.
type Direction string

const (
	DirectionIn      Direction = "in"
	DirectionOut     Direction = "out"
	DirectionUnknown Direction = ""
)

// deviceSets holds a zone's normalized in/out device names.
type deviceSets struct {
	in  map[string]struct{}
	out map[string]struct{}
}

func newDeviceSets(inDevices, outDevices []string) deviceSets {
	s := deviceSets{
		in:  make(map[string]struct{}, len(inDevices)),
		out: make(map[string]struct{}, len(outDevices)),
	}
	for _, d := range inDevices {
		s.in[normalizeDeviceName(d)] = struct{}{}
	}
	for _, d := range outDevices {
		s.out[normalizeDeviceName(d)] = struct{}{}
	}
	return s
}

func normalizeDeviceName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// classify maps a raw device name to its direction. Unknown devices cause
// the caller to discard the event.
func (s deviceSets) classify(deviceName string) Direction {
	name := normalizeDeviceName(deviceName)
	if _, ok := s.in[name]; ok {
		return DirectionIn
	}
	if _, ok := s.out[name]; ok {
		return DirectionOut
	}
	return DirectionUnknown
}
