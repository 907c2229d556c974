// internal/service/email/service.go
package email

import (
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"net/smtp"
	"strings"
)

// ErrNotConfigured is returned by Send when no SMTP host is set.
var ErrNotConfigured = errors.New("smtp not configured")

// EmailSender handles outgoing emails via SMTP.
type EmailSender struct {
	smtpHost string
	smtpPort string
	username string
	password string
	fromName string
	secure   bool
}

// NewEmailSender creates a new SMTP email sender.
func NewEmailSender(host, port, user, pass, fromName string, secure bool) *EmailSender {
	return &EmailSender{
		smtpHost: host,
		smtpPort: port,
		username: user,
		password: pass,
		fromName: fromName,
		secure:   secure,
	}
}

// Enabled reports whether a mail server is configured.
func (e *EmailSender) Enabled() bool {
	return e != nil && e.smtpHost != "" && e.username != ""
}

// Send sends an email with a subject and body (HTML supported).
func (e *EmailSender) Send(to, subject, bodyHTML string) error {
	if !e.Enabled() {
		return ErrNotConfigured
	}
	from := fmt.Sprintf("%s <%s>", e.fromName, e.username)
	msg := buildMessage(from, to, subject, buildHTMLTemplate(e.fromName, bodyHTML))

	serverAddr := e.smtpHost + ":" + e.smtpPort
	auth := smtp.PlainAuth("", e.username, e.password, e.smtpHost)

	if !e.secure {
		// Port 587 - STARTTLS
		if err := smtp.SendMail(serverAddr, auth, e.username, []string{to}, msg); err != nil {
			return fmt.Errorf("send mail failed: %w", err)
		}
		return nil
	}

	// Port 465 - implicit TLS
	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: e.smtpHost})
	if err != nil {
		return fmt.Errorf("tls dial failed: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.smtpHost)
	if err != nil {
		return fmt.Errorf("smtp client failed: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth failed: %w", err)
	}
	return e.sendMail(client, to, msg)
}

func (e *EmailSender) sendMail(client *smtp.Client, to string, msg []byte) error {
	if err := client.Mail(e.username); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return w.Close()
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// WelcomeEmail is sent after registration.
func WelcomeEmail(name, frontendURL string) (subject, body string) {
	subject = "Welcome to WeCamp"
	body = fmt.Sprintf(`<h2>Welcome, %s!</h2>
<p>Your WeCamp account is ready. Browse gear and campsites and book your next trip.</p>`, html.EscapeString(name))
	if frontendURL != "" {
		body += fmt.Sprintf(`<p><a class="button" href="%s">Start exploring</a></p>`, html.EscapeString(frontendURL))
	}
	return subject, body
}

// PasswordChangedEmail warns the owner that every session was signed out.
func PasswordChangedEmail(name string) (subject, body string) {
	return "Your WeCamp password was changed", fmt.Sprintf(`<p>Hello %s,</p>
<p>Your password was just changed and all other sessions were signed out.</p>
<p>If this wasn't you, reset your password immediately.</p>`, html.EscapeString(name))
}

// buildHTMLTemplate wraps a given body into the branded layout.
func buildHTMLTemplate(brand, content string) string {
	brand = html.EscapeString(brand)
	return `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8" />
	<title>` + brand + `</title>
	<style>
		body { font-family: Arial, sans-serif; background-color: #f4f1ea; padding: 30px; }
		.container { max-width: 600px; margin: auto; background: #fff; border-radius: 10px; overflow: hidden; }
		.header { background: #2f5d3a; color: white; text-align: center; padding: 20px; font-size: 22px; font-weight: bold; }
		.body { padding: 25px; color: #333; line-height: 1.6; }
		.footer { background: #eee; color: #555; text-align: center; padding: 15px; font-size: 13px; }
		a.button { display: inline-block; background: #2f5d3a; color: white; padding: 10px 20px; border-radius: 5px; text-decoration: none; }
	</style>
</head>
<body>
<div class="container">
	<div class="header">` + brand + `</div>
	<div class="body">
` + strings.TrimSpace(content) + `
	</div>
	<div class="footer"><p>` + brand + `</p></div>
</div>
</body>
</html>`
}
