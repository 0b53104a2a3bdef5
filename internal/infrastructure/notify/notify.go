// Package notify delivers the run outcome by SMS, or to the log when SMS is
// not configured.
package notify

import (
	"strings"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"go.uber.org/zap"
)

// Settings hold the Twilio account and the two phone numbers.
type Settings struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

// Missing names the unset variables, in a stable order.
func (s Settings) Missing() []string {
	var out []string
	for _, f := range []struct{ name, v string }{
		{"TWILIO_SID", s.AccountSID},
		{"TWILIO_AUTH_TOKEN", s.AuthToken},
		{"TWILIO_FROM_NUMBER", s.From},
		{"TWILIO_TO_NUMBER", s.To},
	} {
		if strings.TrimSpace(f.v) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

func (s Settings) Complete() bool { return len(s.Missing()) == 0 }

// New returns an SMS notifier when settings are complete and a log-only one
// otherwise. It never fails.
func New(s Settings, log *zap.Logger) parking.Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	if missing := s.Missing(); len(missing) > 0 {
		log.Warn("sms notifications disabled; missing twilio settings",
			zap.Strings("missing", missing))
		return NewLogOnly(log)
	}
	log.Info("sms notifications enabled")
	return NewTwilio(s, log)
}

func successMessage(dates parking.TargetDates, spot string) string {
	if spot != "" {
		return "Parkalot SUCCESS: Parking spot " + spot + " reserved for " + dates.String() + "!"
	}
	return "Parkalot SUCCESS: Parking reservation confirmed for " + dates.String() + "!"
}

func failureMessage(dates parking.TargetDates, reason string) string {
	msg := "Parkalot FAILED: Could not reserve parking for " + dates.String() + "."
	if reason != "" {
		msg += " Error: " + reason
	}
	return msg
}
