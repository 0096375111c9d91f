package services

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"taxpractice/internal/models"
)

// AlertService pushes urgent practice events to the staff Telegram channel.
// A nil *AlertService is safe to call; alerts are simply skipped when no bot
// token is configured.
type AlertService struct {
	log     *zap.Logger
	deliver func(text string) error
}

func NewAlertService(token string, chatID int64, log *zap.Logger) *AlertService {
	if token == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Warn("telegram bot unavailable, alerts disabled", zap.Error(err))
		return nil
	}
	return &AlertService{
		log: log,
		deliver: func(text string) error {
			_, err := bot.Send(tgbotapi.NewMessage(chatID, text))
			return err
		},
	}
}

func (s *AlertService) send(text string) {
	if s == nil {
		return
	}
	if err := s.deliver(text); err != nil {
		s.log.Error("send telegram alert", zap.Error(err))
	}
}

// NoticeReceived alerts staff about a new high-risk IRS notice.
func (s *AlertService) NoticeReceived(n *models.IRSNotice, risk models.RiskLevel) {
	if s == nil || risk != models.RiskHigh {
		return
	}
	s.send(fmt.Sprintf("High-risk IRS notice %s received (client %s), response due %s",
		n.NoticeType, n.ClientID, n.ResponseDue.Format("2006-01-02")))
}

// ReturnCompleted announces a finished return.
func (s *AlertService) ReturnCompleted(t *models.TaxReturn) {
	if s == nil {
		return
	}
	s.send(fmt.Sprintf("Tax return %d %s completed for client %s", t.TaxYear, t.Type, t.ClientID))
}

// UrgentTask flags a task that landed with URGENT priority.
func (s *AlertService) UrgentTask(t *models.Task) {
	if s == nil || t.Priority != models.PriorityUrgent {
		return
	}
	s.send(fmt.Sprintf("Urgent task: %s (client %s)", t.Title, t.ClientID))
}
