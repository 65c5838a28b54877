// Package mailer renders HTML templates and delivers them over SMTP.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer sends the transactional emails of the platform.
type Mailer interface {
	SendWelcome(ctx context.Context, to, name, verificationURL string) error
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
	SendNotification(ctx context.Context, to, name, title, body string) error
}

type templateData struct {
	AppName string
	Name    string
	URL     string
	Title   string
	Body    string
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	cfg     utils.EmailConfig
	appName string
	tmpl    *template.Template
	send    sendFunc
	log     *zap.Logger
}

// New returns an SMTP mailer. Without SMTP_HOST the rendered mail is only
// logged, which is enough for local development.
func New(cfg utils.EmailConfig, appName string, log *zap.Logger) (Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	m := &smtpMailer{
		cfg:     cfg,
		appName: appName,
		tmpl:    tmpl,
		send:    smtp.SendMail,
		log:     log.With(zap.String("component", "mailer")),
	}
	if cfg.Host == "" {
		m.send = nil
	}
	return m, nil
}

func (m *smtpMailer) SendWelcome(ctx context.Context, to, name, verificationURL string) error {
	return m.deliver(ctx, to, "Welcome to "+m.appName+"!", "welcome.html", templateData{
		Name: name,
		URL:  verificationURL,
	})
}

func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	return m.deliver(ctx, to, "Reset Your Password", "password_reset.html", templateData{
		Name: name,
		URL:  resetURL,
	})
}

func (m *smtpMailer) SendNotification(ctx context.Context, to, name, title, body string) error {
	return m.deliver(ctx, to, title, "notification.html", templateData{
		Name:  name,
		Title: title,
		Body:  body,
	})
}

func (m *smtpMailer) deliver(ctx context.Context, to, subject, tmplName string, data templateData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data.AppName = m.appName
	var html bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&html, tmplName, data); err != nil {
		return fmt.Errorf("render %s: %w", tmplName, err)
	}

	if m.send == nil {
		m.log.Info("SMTP disabled, email not sent",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("url", data.URL))
		return nil
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.User
	}
	msg := buildMessage(from, to, subject, html.String())

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, from, []string{to}, msg); err != nil {
		m.log.Error("Failed to send email", zap.Error(err), zap.String("to", to), zap.String("subject", subject))
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
