// Package mail sends the report mails: an HTML body rendered from the
// embedded template with the workbook attached, and an optional inline
// signature image.
package mail

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/excel"
)

//go:embed template.html
var bodyTemplate string

// Mailer sends report mails over plain SMTP.
type Mailer struct {
	Cfg config.Config
}

func New(cfg config.Config) *Mailer {
	return &Mailer{Cfg: cfg}
}

// SendReport mails the workbook to the configured recipients. When no
// recipients are given the sender address receives it, matching how the
// report distribution list is managed upstream. A delivery failure is
// returned but should not abort the pipeline; the report file stays on disk.
func (m *Mailer) SendReport(report *excel.File, to ...string) error {
	if m.Cfg.SMTPServer == "" {
		return fmt.Errorf("mail: SMTP_SERVER not configured")
	}
	if len(to) == 0 {
		to = []string{m.Cfg.MailSender}
	}

	body := strings.ReplaceAll(bodyTemplate, "${DATE}", m.Cfg.Now().Format("2006-01-02"))
	body = strings.ReplaceAll(body, "${IT_SUPPORT_EMAIL}", m.Cfg.MailSupportInbox)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Cfg.MailSender)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", m.Cfg.MailSubject)
	msg.SetBody("text/html", body)

	if m.Cfg.MailSignatureFile != "" {
		if _, err := os.Stat(m.Cfg.MailSignatureFile); err == nil {
			// The body template references the image as cid:signature.png.
			msg.Embed(m.Cfg.MailSignatureFile, gomail.Rename("signature.png"))
		} else {
			slog.Warn("signature image missing, sending without it", "path", m.Cfg.MailSignatureFile)
		}
	}

	msg.Attach(report.Path, gomail.Rename(report.Name))

	slog.Info("sending report mail", "to", strings.Join(to, ", "), "attachment", report.Name)
	dialer := gomail.Dialer{Host: m.Cfg.SMTPServer, Port: m.Cfg.SMTPPort}
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", strings.Join(to, ", "), err)
	}
	slog.Info("report mail sent", "to", strings.Join(to, ", "))
	return nil
}
