// Package logging provides a production Logger implementation for hfsmx,
// backed by logrus.
package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/hfsmx/hfsmx"
)

// LogrusLogger adapts a logrus.FieldLogger to hfsmx.Logger. Hook dispatch,
// task status and selection resolutions are emitted at Trace level,
// committed transitions and plan successes at Debug, and cancellations and
// plan failures at Warn — hook-by-hook dispatch is far too chatty for Debug
// in a running system.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps logger, or logrus.StandardLogger() if nil.
func NewLogrusLogger(logger *logrus.Logger) *LogrusLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusLogger{entry: logrus.NewEntry(logger)}
}

func (l *LogrusLogger) RecordMethod(ctx any, id hfsmx.StateID, method hfsmx.Method) {
	l.entry.WithFields(logrus.Fields{
		"state":  int(id),
		"method": method.String(),
	}).Trace("hfsmx: dispatch")
}

func (l *LogrusLogger) RecordTransition(ctx any, id hfsmx.StateID, kind hfsmx.RequestKind) {
	l.entry.WithFields(logrus.Fields{
		"state": int(id),
		"kind":  kind.String(),
	}).Debug("hfsmx: transition committed")
}

func (l *LogrusLogger) RecordTaskStatus(ctx any, region hfsmx.RegionID, id hfsmx.StateID, event hfsmx.StatusEvent) {
	l.entry.WithFields(logrus.Fields{
		"region": int(region),
		"state":  int(id),
		"event":  event.String(),
	}).Trace("hfsmx: task status")
}

func (l *LogrusLogger) RecordPlanStatus(ctx any, region hfsmx.RegionID, event hfsmx.StatusEvent) {
	entry := l.entry.WithFields(logrus.Fields{
		"region": int(region),
		"event":  event.String(),
	})
	if event == hfsmx.StatusFailed {
		entry.Warn("hfsmx: plan failed")
		return
	}
	entry.Debug("hfsmx: plan succeeded")
}

func (l *LogrusLogger) RecordCancelledPending(ctx any, id hfsmx.StateID) {
	l.entry.WithField("state", int(id)).Warn("hfsmx: guard cancelled pending transition")
}

func (l *LogrusLogger) RecordUtilityResolution(ctx any, region hfsmx.RegionID, prong int, utility float64) {
	l.entry.WithFields(logrus.Fields{
		"region":  int(region),
		"prong":   prong,
		"utility": utility,
	}).Trace("hfsmx: utilitarian selection")
}

func (l *LogrusLogger) RecordRandomResolution(ctx any, region hfsmx.RegionID, prong int, utility float64) {
	l.entry.WithFields(logrus.Fields{
		"region":  int(region),
		"prong":   prong,
		"utility": utility,
	}).Trace("hfsmx: randomutil selection")
}
