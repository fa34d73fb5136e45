package tracker

import "time"

// debounceWindow suppresses repeated same-direction swipes for the same
// person, so re-badging at a gate does not inflate counts.
const debounceWindowSeconds = 60

const eventTimeLayout = "2006-01-02 15:04:05"

// Two event labels are unconditionally ignored regardless of other fields.
var ignoredEventNames = map[string]struct{}{
	"Global Anti-Passback(logical)": {},
	"Disconnected":                  {},
}

// PresenceStatus is a person's reconstructed position relative to the zone.
type PresenceStatus string

const (
	StatusOutside PresenceStatus = "outside"
	StatusInside  PresenceStatus = "inside"
)

// Transition records one effective crossing of the zone boundary.
type Transition struct {
	Direction Direction
	Timestamp int64
	Time      string // original upstream time string
}

// PersonState tracks one person's inside/outside status over a single
// tracker cycle. It is never carried across cycles: debounce state resets
// at every cycle boundary.
type PersonState struct {
	Department  string
	Status      PresenceStatus
	Name        string
	LastTime    string // time string of the most recent transition
	Transitions []Transition

	// lastSeen holds per-direction debounce clocks in unix seconds,
	// 0 = never seen.
	lastSeen map[Direction]int64
}

func newPersonState(department, name string) *PersonState {
	return &PersonState{
		Department: department,
		Status:     StatusOutside,
		Name:       name,
		lastSeen: map[Direction]int64{
			DirectionIn:  0,
			DirectionOut: 0,
		},
	}
}

// processEvents folds the raw event stream into per-person states. Events
// are consumed in arrival order, not re-sorted by timestamp.
//
// Counting is edge-triggered: an "in" swipe only counts on the
// outside→inside edge and an "out" only on inside→outside. A swipe that
// matches the person's current status still advances the debounce clock
// but changes nothing else, so raw swipe volume and true movement volume
// stay distinct.
func processEvents(events []RawEvent, devices deviceSets) map[string]*PersonState {
	perPerson := make(map[string]*PersonState)

	for _, ev := range events {
		if ev.Department == "" || ev.Pin == "" || ev.DeviceName == "" || ev.EventTime == "" {
			continue
		}
		if _, ignored := ignoredEventNames[ev.EventName]; ignored {
			continue
		}

		parsed, err := time.Parse(eventTimeLayout, ev.EventTime)
		if err != nil {
			continue
		}
		ts := parsed.Unix()

		dir := devices.classify(ev.DeviceName)
		if dir == DirectionUnknown {
			continue
		}

		state, ok := perPerson[ev.Pin]
		if !ok {
			state = newPersonState(ev.Department, ev.Name)
			perPerson[ev.Pin] = state
		}

		// Same-direction debounce, checked before the state machine so a
		// duplicate swipe updates nothing at all.
		if diff := ts - state.lastSeen[dir]; diff <= debounceWindowSeconds && diff >= -debounceWindowSeconds {
			continue
		}
		state.lastSeen[dir] = ts

		switch {
		case dir == DirectionIn && state.Status == StatusOutside:
			state.Status = StatusInside
			state.Transitions = append(state.Transitions, Transition{Direction: DirectionIn, Timestamp: ts, Time: ev.EventTime})
			state.LastTime = ev.EventTime
		case dir == DirectionOut && state.Status == StatusInside:
			state.Status = StatusOutside
			state.Transitions = append(state.Transitions, Transition{Direction: DirectionOut, Timestamp: ts, Time: ev.EventTime})
			state.LastTime = ev.EventTime
		}
	}

	return perPerson
}
