package main

import (
	"fmt"
	"io"
	"time"

	"reggen/internal/observ"
	"reggen/internal/pipeline"
)

func printStageTimings(out io.Writer, timings pipeline.Timings, timer *observ.Timer) {
	if out == nil {
		return
	}
	if timings.Has(pipeline.StageLoad) {
		fmt.Fprintf(out, "loaded %.1f ms\n", toMillis(timings.Duration(pipeline.StageLoad)))
	}
	if timings.Has(pipeline.StageValidate) {
		fmt.Fprintf(out, "checked %.1f ms\n", toMillis(timings.Duration(pipeline.StageValidate)))
	}
	if timings.Has(pipeline.StageAssemble) {
		fmt.Fprintf(out, "generated %.1f ms\n", toMillis(timings.Duration(pipeline.StageAssemble)))
	}
	if timer != nil {
		fmt.Fprint(out, timer.Summary())
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
