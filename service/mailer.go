package service

import (
	"fmt"

	mail "github.com/go-mail/mail/v2"
	"go.uber.org/zap"
)

// Mailer sends verification result notifications. All sends are
// best-effort: failures are logged, never surfaced to the caller.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	if host == "" {
		return nil
	}
	if from == "" {
		from = user
	}
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *Mailer) send(to, subject, body string) {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := mail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		zap.L().Warn("mail send failed", zap.String("to", to), zap.Error(err))
		return
	}
	zap.L().Info("mail sent", zap.String("to", to), zap.String("subject", subject))
}

// SendVerificationApproved notifies the user that their ID documents passed review.
func (m *Mailer) SendVerificationApproved(to, username string) {
	if m == nil {
		return
	}
	body := fmt.Sprintf("Merhaba %s,\n\nKimlik doğrulamanız onaylandı. Hesabınız artık doğrulanmış durumda.", username)
	m.send(to, "Kimlik doğrulama onaylandı", body)
}

// SendVerificationRejected notifies the user of a rejection and the reason.
func (m *Mailer) SendVerificationRejected(to, username, reason string) {
	if m == nil {
		return
	}
	body := fmt.Sprintf("Merhaba %s,\n\nKimlik doğrulamanız reddedildi.", username)
	if reason != "" {
		body += "\nNeden: " + reason
	}
	body += "\nBelgelerinizi kontrol edip tekrar yükleyebilirsiniz."
	m.send(to, "Kimlik doğrulama reddedildi", body)
}
