package harness

import (
	"fmt"
	"io"

	akitasim "github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/predictor"
)

// EventLogger is a hook that writes one line per prediction and training
// call.
type EventLogger struct {
	w io.Writer
}

// NewEventLogger creates an EventLogger writing to w.
func NewEventLogger(w io.Writer) *EventLogger {
	return &EventLogger{w: w}
}

// Func implements akitasim.Hook.
func (l *EventLogger) Func(ctx akitasim.HookCtx) {
	switch item := ctx.Item.(type) {
	case predictor.PredictEvent:
		_, _ = fmt.Fprintf(l.w, "predict pc=0x%08x pred=%s\n", item.PC, item.Prediction)
	case predictor.TrainEvent:
		_, _ = fmt.Fprintf(l.w, "train   pc=0x%08x outcome=%s\n", item.PC, item.Outcome)
	}
}
