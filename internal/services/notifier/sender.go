package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/movienest/movienest/internal/lib/sl"
	"github.com/movienest/movienest/internal/lib/smtp"
	"github.com/movienest/movienest/internal/models"
)

// SenderService отправляет напоминания об окончании подписки по почте.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendExpiryReminder разбирает сообщение очереди и отправляет пользователю
// письмо о том, что его подписка заканчивается завтра.
func (s *SenderService) SendExpiryReminder(body []byte) error {
	var message models.ExpiryReminder
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Уведомление о скором окончании подписки Movienest"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка Movienest на план %s заканчивается завтра, %s.\n\nПожалуйста, продлите её заранее, чтобы не потерять доступ к фильмам.",
		message.Username, message.PlanName, message.EndDate.Format("02.01.2006"))

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPFrom(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPFrom()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPFrom(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("reminder email sent", "to", to)
	return nil
}
