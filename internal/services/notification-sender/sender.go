// Package services содержит отправку писем об истекающих пакетах очков.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	libsmtp "github.com/magabrotheeeer/points-marketplace/internal/lib/smtp"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// SenderService отправляет почтовые уведомления владельцам пакетов.
type SenderService struct {
	transport libsmtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport libsmtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendInfoExpiringPackage разбирает сообщение из очереди и отправляет письмо
// владельцу пакета, срок жизни которого истекает завтра.
func (s *SenderService) SendInfoExpiringPackage(body []byte) error {
	var message models.PackageExpiryInfo
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}

	subject := "Уведомление о скором истечении пакета очков"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nСрок действия вашего пакета очков №%d заканчивается %s.\n\nНеиспользованные очки после этой даты сгорят.",
		message.Username, message.PackageID, message.ExpiresAt.Format("2006-01-02"))

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", s.transport.GetSMTPUser()),
		fmt.Sprintf("To: %s", strings.Join(to, ";")),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			s.log.Error("failed to close SMTP client", sl.Err(closeErr))
		}
	}()

	if err = client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set mail sender", sl.Err(err))
		return fmt.Errorf("failed to set mail sender: %w", err)
	}

	for _, addr := range to {
		if err = client.Rcpt(addr); err != nil {
			s.log.Error("failed to set recipient", sl.Err(err))
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get write closer", sl.Err(err))
		return fmt.Errorf("failed to get write closer: %w", err)
	}
	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write message", sl.Err(err))
		return fmt.Errorf("failed to write message: %w", err)
	}
	err = wc.Close()
	if err != nil {
		s.log.Error("failed to close write closer", sl.Err(err))
		return fmt.Errorf("failed to close write closer: %w", err)
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return fmt.Errorf("failed to quit SMTP client: %w", err)
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
