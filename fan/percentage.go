package fan

import (
	"fmt"

	"github.com/thomasgermain/go-mypyllant/mypyllant"
)

// fanSpeedModes is the discrete speed scale, slowest first. OFF and
// TIME_CONTROLLED are deliberately absent: they are sentinels, not speeds.
var fanSpeedModes = []mypyllant.VentilationOperationMode{
	mypyllant.OperationModeReduced,
	mypyllant.OperationModeNormal,
}

// orderedModeToPercentage maps a mode to its percentage on the scale by even
// partition, so the last item always maps to 100. Modes outside the scale are
// an error, not a default.
func orderedModeToPercentage(modes []mypyllant.VentilationOperationMode, mode mypyllant.VentilationOperationMode) (int, error) {
	for i, m := range modes {
		if m == mode {
			return (i + 1) * 100 / len(modes), nil
		}
	}

	return 0, fmt.Errorf("operation mode %v has no speed percentage", mode)
}

// percentageToOrderedMode is the inverse of orderedModeToPercentage: the
// percentage range is partitioned evenly and the nearest step from below is
// picked. Values above 100 land on the last item; 0 is the caller's problem.
func percentageToOrderedMode(modes []mypyllant.VentilationOperationMode, percentage int) mypyllant.VentilationOperationMode {
	step := 100 / len(modes)
	for i, m := range modes {
		if percentage <= (i+1)*step {
			return m
		}
	}

	return modes[len(modes)-1]
}
