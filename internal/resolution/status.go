package resolution

// Status is the resolution lifecycle state of one field data item.
type Status int

const (
	StatusNotStarted           Status = 0
	StatusResultAssigned       Status = 50
	StatusNeedsChildResolution Status = 100
	StatusComplete             Status = 200
	StatusFailed               Status = 300
	StatusCanceled             Status = 400
	StatusInvalid              Status = 500
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "NotStarted"
	case StatusResultAssigned:
		return "ResultAssigned"
	case StatusNeedsChildResolution:
		return "NeedsChildResolution"
	case StatusComplete:
		return "Complete"
	case StatusFailed:
		return "Failed"
	case StatusCanceled:
		return "Canceled"
	case StatusInvalid:
		return "Invalid"
	}
	return "Unknown"
}

// allowedTransitions maps each target status to the set of statuses it may be
// entered from. A requested transition not present here is a no-op: the
// pipeline may issue out-of-order or duplicate requests and the item's state
// must not corrupt.
var allowedTransitions = map[Status][]Status{
	StatusComplete:             {StatusNeedsChildResolution, StatusNotStarted, StatusResultAssigned},
	StatusCanceled:             {StatusNeedsChildResolution, StatusNotStarted, StatusComplete, StatusResultAssigned},
	StatusFailed:               {StatusNeedsChildResolution, StatusNotStarted, StatusResultAssigned},
	StatusNeedsChildResolution: {StatusNotStarted, StatusResultAssigned},
	StatusResultAssigned:       {StatusNotStarted},
	StatusInvalid:              {StatusNotStarted, StatusResultAssigned, StatusNeedsChildResolution, StatusComplete},
}

// CanTransition reports whether the allow-table permits moving from one
// status to another.
func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// IncludeInOutput reports whether an item in this status still renders a slot
// in the response, distinguishing "intentionally absent" from "never
// processed".
func (s Status) IncludeInOutput() bool {
	return s == StatusComplete || s == StatusFailed || s == StatusInvalid
}

// IsFinalized reports whether no further child work should be scheduled.
func (s Status) IsFinalized() bool {
	return s == StatusCanceled || s == StatusFailed || s == StatusInvalid
}
