package delivery

import (
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	gomail "gopkg.in/mail.v2"

	"github.com/umputun/devscope/pkg/config"
	"github.com/umputun/devscope/pkg/domain"
)

// EmailSender delivers digests and answers via SMTP. A sender with no host
// configured silently does nothing, email is strictly optional.
type EmailSender struct {
	cfg config.EmailConfig

	// send is swappable in tests, defaults to gomail DialAndSend
	send func(m *gomail.Message) error
}

// NewEmailSender creates a sender for the given SMTP configuration
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	s := &EmailSender{cfg: cfg}
	s.send = func(m *gomail.Message) error {
		dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
		dialer.Timeout = 10 * time.Second
		return dialer.DialAndSend(m)
	}
	return s
}

// Enabled reports whether the sender is configured to actually deliver
func (s *EmailSender) Enabled() bool {
	return s.cfg.Host != "" && s.cfg.To != ""
}

// SendDigest emails a digest, subject carries the type and date
func (s *EmailSender) SendDigest(digest *domain.Digest) error {
	subject := fmt.Sprintf("[devscope] %s — %s", digest.Type, digest.GeneratedAt.Format(time.DateOnly))
	return s.deliver(subject, digest.Content)
}

// SendQA emails a question/answer pair
func (s *EmailSender) SendQA(qa *domain.QAResult) error {
	question := qa.Question
	if len(question) > 50 {
		question = question[:50]
	}
	subject := fmt.Sprintf("[devscope] Q&A — %s", question)
	body := fmt.Sprintf("Q: %s\n\nA: %s", qa.Question, qa.Answer)
	return s.deliver(subject, body)
}

func (s *EmailSender) deliver(subject, body string) error {
	if !s.Enabled() {
		log.Printf("[WARN] email not configured, skipping delivery of %q", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("send email %q to %s: %w", subject, s.cfg.To, err)
	}
	log.Printf("[INFO] email sent: %s", subject)
	return nil
}
