package providers

import (
	"context"
	"fmt"

	"relief-service/internal/logging"
	"relief-service/internal/models"
)

// textSender is satisfied by *sms.Client.
type textSender interface {
	Send(toNumber, body string) error
}

// SMS texts destructive toasts to a fixed list of numbers, so people without
// a data connection still get emergency notices.
type SMS struct {
	sender    textSender
	toNumbers []string
	logger    *logging.Logger
}

func NewSMS(sender textSender, toNumbers []string, logger *logging.Logger) *SMS {
	return &SMS{sender: sender, toNumbers: toNumbers, logger: logger}
}

func (s *SMS) Notify(ctx context.Context, toast models.Toast) {
	if toast.Severity != models.SeverityDestructive {
		return
	}
	body := fmt.Sprintf("%s\n%s", toast.Title, toast.Description)
	for _, to := range s.toNumbers {
		if ctx.Err() != nil {
			return
		}
		if err := s.sender.Send(to, body); err != nil {
			s.logger.Errorf("Dispatch error via sms: %v", err)
			continue
		}
		s.logger.Infof("Toast %q sent via sms to %s", toast.Title, to)
	}
}
