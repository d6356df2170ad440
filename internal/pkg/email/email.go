// Package email sends transactional mail over SMTP. When no credentials are
// configured the service degrades to logging, so local development never
// needs a mail server.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/anandr/kuliahku/internal/pkg/logger"
)

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Service sends application mail.
type Service struct {
	config SMTPConfig
}

// NewService creates a new email Service.
func NewService(config SMTPConfig) *Service {
	return &Service{config: config}
}

// SendWelcome sends the post-registration welcome mail.
func (s *Service) SendWelcome(ctx context.Context, to string, fullName *string) error {
	name := "there"
	if fullName != nil && *fullName != "" {
		name = *fullName
	}

	if s.config.Username == "" || s.config.Password == "" {
		logger.Warn().
			Str("toEmail", to).
			Msg("SMTP credentials not configured - welcome email not sent")
		return nil
	}

	subject := "Welcome to KuliahKu"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to KuliahKu!</h2>
				<p>Hello %s,</p>
				<p>Your account is ready. Sign in to start tracking your courses and tasks.</p>

				<p>Best regards,<br>The KuliahKu Team</p>
			</div>
		</body>
		</html>
	`, name)

	return s.sendHTMLEmail(ctx, to, subject, body)
}

func (s *Service) sendHTMLEmail(ctx context.Context, toEmail, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
		logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
