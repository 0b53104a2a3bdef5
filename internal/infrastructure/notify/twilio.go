package notify

import (
	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Twilio sends one SMS per outcome.
type Twilio struct {
	api  messageCreator
	from string
	to   string
	log  *zap.Logger
}

func NewTwilio(s Settings, log *zap.Logger) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.AccountSID,
		Password: s.AuthToken,
	})
	return &Twilio{api: client.Api, from: s.From, to: s.To, log: log}
}

func (t *Twilio) SendSuccess(dates parking.TargetDates, spot string) bool {
	return t.send(successMessage(dates, spot))
}

func (t *Twilio) SendFailure(dates parking.TargetDates, reason string) bool {
	return t.send(failureMessage(dates, reason))
}

func (t *Twilio) send(body string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("sms send panicked", zap.Any("panic", r))
			ok = false
		}
	}()

	t.log.Info("sending sms notification", zap.String("to", t.to))
	params := &openapi.CreateMessageParams{}
	params.SetTo(t.to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		t.log.Error("sms send failed", zap.Error(err))
		return false
	}
	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	t.log.Info("sms sent", zap.String("sid", sid))
	return true
}
