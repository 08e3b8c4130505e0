package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/unihub/unihub/backend/internal/config"
	"github.com/unihub/unihub/backend/pkg/logger"
)

// EmailService renders and delivers transactional mail. Messages are
// dispatched through the task queue; delivery failures are logged and
// never surface to the caller of an HTTP request.
type EmailService struct {
	cfg         *config.EmailConfig
	frontendURL string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		cfg:         &cfg.Email,
		frontendURL: strings.TrimRight(cfg.Frontend.URL, "/"),
	}
}

// QueueVerification enqueues an address-verification email.
func (s *EmailService) QueueVerification(to, name, token string) {
	s.enqueue(&EmailTask{Kind: EmailKindVerification, To: to, Name: name, Token: token})
}

// QueueWelcome enqueues a welcome email after verification succeeds.
func (s *EmailService) QueueWelcome(to, name string) {
	s.enqueue(&EmailTask{Kind: EmailKindWelcome, To: to, Name: name})
}

// QueuePasswordReset enqueues a password reset email.
func (s *EmailService) QueuePasswordReset(to, name, token string) {
	s.enqueue(&EmailTask{Kind: EmailKindPasswordReset, To: to, Name: name, Token: token})
}

func (s *EmailService) enqueue(task *EmailTask) {
	queue := GetTaskQueue()
	if queue == nil {
		logger.Warnf("[Email] task queue not initialized, dropping %s email to %s", task.Kind, task.To)
		return
	}
	if err := queue.Enqueue(task); err != nil {
		logger.Warnf("[Email] failed to enqueue %s email to %s: %v", task.Kind, task.To, err)
	}
}

// Process delivers a queued email task. Registered as the queue/worker
// processor during bootstrap.
func (s *EmailService) Process(ctx context.Context, task *EmailTask) error {
	switch task.Kind {
	case EmailKindVerification:
		return s.sendVerification(task.To, task.Name, task.Token)
	case EmailKindWelcome:
		return s.sendWelcome(task.To, task.Name)
	case EmailKindPasswordReset:
		return s.sendPasswordReset(task.To, task.Name, task.Token)
	default:
		logger.Warnf("[Email] unknown email kind %q", task.Kind)
		return nil
	}
}

func (s *EmailService) sendVerification(to, name, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)

	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>Welcome to UniHub, %s!</h2>", name))
	sb.WriteString("<p>Please verify your email address to activate your account. The link expires in 24 hours.</p>")
	sb.WriteString(fmt.Sprintf("<p><a href=\"%s\" style=\"background: #4f46e5; color: #fff; padding: 10px 20px; border-radius: 4px; text-decoration: none;\">Verify Email</a></p>", link))
	sb.WriteString(fmt.Sprintf("<p style=\"color: #888; font-size: 12px;\">If the button does not work, open this link: %s</p>", link))
	sb.WriteString("</body></html>")

	return s.send([]string{to}, "[UniHub] Verify your email address", sb.String())
}

func (s *EmailService) sendWelcome(to, name string) error {
	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>Your UniHub account is ready, %s</h2>", name))
	sb.WriteString("<p>Your email address is verified. You can now browse projects, send join requests, and message other members.</p>")
	sb.WriteString(fmt.Sprintf("<p><a href=\"%s\">Open UniHub</a></p>", s.frontendURL))
	sb.WriteString("</body></html>")

	return s.send([]string{to}, "[UniHub] Welcome aboard", sb.String())
}

func (s *EmailService) sendPasswordReset(to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)

	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>Password reset requested</h2><p>Hi %s,</p>", name))
	sb.WriteString("<p>We received a request to reset your password. The link expires in 1 hour. If you did not request this, you can ignore this email.</p>")
	sb.WriteString(fmt.Sprintf("<p><a href=\"%s\" style=\"background: #4f46e5; color: #fff; padding: 10px 20px; border-radius: 4px; text-decoration: none;\">Reset Password</a></p>", link))
	sb.WriteString(fmt.Sprintf("<p style=\"color: #888; font-size: 12px;\">If the button does not work, open this link: %s</p>", link))
	sb.WriteString("</body></html>")

	return s.send([]string{to}, "[UniHub] Reset your password", sb.String())
}

func (s *EmailService) send(to []string, subject, body string) error {
	if !s.cfg.Enabled || s.cfg.Host == "" {
		logger.Debug().Str("subject", subject).Msg("email disabled, skipping send")
		return nil
	}
	if len(to) == 0 {
		return nil
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	if s.cfg.UseTLS {
		err = s.sendTLS(addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Warnf("[Email] Failed to send email: %v", err)
		return err
	}

	logger.Infof("[Email] Sent %q to %v", subject, to)
	return nil
}

func (s *EmailService) sendTLS(addr string, auth smtp.Auth, from string, to []string, message string) error {
	tlsConfig := &tls.Config{
		ServerName: s.cfg.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	if _, err = w.Write([]byte(message)); err != nil {
		return err
	}

	return w.Close()
}
