package diag

import "fmt"

// Stage identifies the planning step that emitted an event.
type Stage string

const (
	StageExtract  Stage = "extract"
	StageResample Stage = "resample"
	StageLocalize Stage = "localize"
	StageFit      Stage = "fit"
	StageEstimate Stage = "estimate"
)

// Event is a structured note emitted during a planning cycle. Events report
// degraded-mode and data-quality conditions that are not errors; callers
// decide whether to log, store, or ignore them.
type Event struct {
	Stage   Stage  `json:"stage"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Eventf builds an Event with a formatted message.
func Eventf(stage Stage, code, format string, v ...interface{}) Event {
	return Event{Stage: stage, Code: code, Message: fmt.Sprintf(format, v...)}
}

func (e Event) String() string {
	return fmt.Sprintf("%s/%s: %s", e.Stage, e.Code, e.Message)
}
