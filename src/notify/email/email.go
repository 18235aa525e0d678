package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/bililive-go/eventdispatcher/src/configs"
)

// SendEmail 发送邮件 subject 主题 body 内容
func SendEmail(cfg configs.Email, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.SenderEmail)
	m.SetHeader("To", cfg.RecipientEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SenderEmail,
		cfg.SenderPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
