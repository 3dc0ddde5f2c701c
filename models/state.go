package models

// State is the pipeline's coarse progress indicator:
// Idle -> Loading -> Extracting -> Scoring -> Classifying -> Persisting -> Done,
// with Failed reachable from any state on an unrecoverable error.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateExtracting
	StateScoring
	StateClassifying
	StatePersisting
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:        "Idle",
	StateLoading:     "Loading",
	StateExtracting:  "Extracting",
	StateScoring:     "Scoring",
	StateClassifying: "Classifying",
	StatePersisting:  "Persisting",
	StateDone:        "Done",
	StateFailed:      "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}
