package services

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer delivers outbound client email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type emailService struct {
	dialer  *gomail.Dialer
	from    string
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewEmailService builds a Mailer over SMTP. The circuit breaker opens after
// repeated dial failures so a down relay fails fast instead of stalling
// every send for the full dial timeout.
func NewEmailService(cfg SMTPSettings, log *zap.Logger) Mailer {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "smtp",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("smtp breaker state change",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return &emailService{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		breaker: breaker,
		log:     log,
	}
}

func (s *emailService) Send(to, subject, body string) error {
	_, err := s.breaker.Execute(func() (any, error) {
		m := gomail.NewMessage()
		m.SetHeader("From", s.from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", subject)
		m.SetBody("text/html", body)
		return nil, s.dialer.DialAndSend(m)
	})
	if err != nil {
		s.log.Error("send email failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}
