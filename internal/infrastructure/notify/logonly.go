package notify

import (
	"github.com/example/parking-scheduler/internal/domain/parking"
	"go.uber.org/zap"
)

// LogOnly writes outcomes to the log. It always reports success.
type LogOnly struct {
	log *zap.Logger
}

func NewLogOnly(log *zap.Logger) *LogOnly {
	return &LogOnly{log: log}
}

func (n *LogOnly) SendSuccess(dates parking.TargetDates, spot string) bool {
	n.log.Info("notification", zap.String("message", successMessage(dates, spot)))
	return true
}

func (n *LogOnly) SendFailure(dates parking.TargetDates, reason string) bool {
	n.log.Warn("notification", zap.String("message", failureMessage(dates, reason)))
	return true
}
