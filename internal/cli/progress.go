package cli

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/latticetile/pkg/solver"
)

// heartbeat is the minimum time between two progress lines.
const heartbeat = 10 * time.Second

// searchProgress turns solver statistics into log lines. It logs every new
// solution batch at debug level and a heartbeat at info level so long
// searches show they are alive.
//
// It is not safe for concurrent use; the solver calls it from one goroutine.
type searchProgress struct {
	logger        *log.Logger
	lastSolutions int
	lastLog       time.Time
}

func newSearchProgress(l *log.Logger) *searchProgress {
	return &searchProgress{logger: l, lastLog: time.Now()}
}

// report is a solver.Options.Progress callback.
func (p *searchProgress) report(s solver.Stats) {
	if s.Solutions > p.lastSolutions {
		p.logger.Debugf("%d solutions after %d placements (depth %d)", s.Solutions, s.Placements, s.Depth)
		p.lastSolutions = s.Solutions
	}
	if time.Since(p.lastLog) < heartbeat {
		return
	}
	p.logger.Infof("Searching... %s elapsed, %d placements, %d solutions, depth %d",
		s.Elapsed.Truncate(time.Second), s.Placements, s.Solutions, s.Depth)
	p.lastLog = time.Now()
}
