// sender.go
package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"TitanicInsight/src/config"
)

// SendReport mails the generated report workbook to the configured
// recipient over SMTP with TLS.
func SendReport(cfg *config.Config, body, attachmentPath string) error {
	from := cfg.SendEmail.Username

	e := email.NewEmail()
	e.From = fmt.Sprintf("Titanic Insight <%s>", from)
	e.To = []string{cfg.SendEmail.To}
	e.Subject = cfg.SendEmail.Subject
	e.Text = []byte(body)

	if attachmentPath != "" {
		if _, err := e.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("attaching report: %w", err)
		}
	}

	smtpAddr := cfg.SendEmail.Server
	if !strings.Contains(smtpAddr, ":") {
		smtpAddr += ":465" // default SSL port
	}
	host := strings.Split(smtpAddr, ":")[0]

	err := e.SendWithTLS(
		smtpAddr,
		smtp.PlainAuth("", from, cfg.SendEmail.Password, host),
		&tls.Config{ServerName: host},
	)
	if err != nil {
		return fmt.Errorf("sending report mail via %s: %w", smtpAddr, err)
	}
	return nil
}
