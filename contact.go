package main

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/joeyaochen/portfolio/internal/config"
	"github.com/joeyaochen/portfolio/internal/form"
	"github.com/joeyaochen/portfolio/internal/store"
)

var errSMTPNotConfigured = errors.New("SMTP credentials not configured")

// sendMailFunc matches smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// contactDelivery stores completed contact submissions and mails them to
// the owner when SMTP is configured.
type contactDelivery struct {
	store    *store.Store
	cfg      config.Config
	sendMail sendMailFunc
	logger   *zap.Logger
}

func newContactDelivery(st *store.Store, cfg config.Config, logger *zap.Logger) *contactDelivery {
	return &contactDelivery{store: st, cfg: cfg, sendMail: smtp.SendMail, logger: logger}
}

// Deliver runs after the form's simulated submit completes. Failures are
// logged; the visitor has already seen the success notification.
func (d *contactDelivery) Deliver(sub form.Submission) {
	ctx := context.Background()
	msg, err := d.store.SaveContact(ctx, store.ContactMessage{
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Message: sub.Message,
	})
	if err != nil {
		d.logger.Error("saving contact message", zap.Error(err))
		return
	}

	if !d.cfg.SMTPConfigured() {
		d.logger.Info("contact message stored, mail disabled", zap.String("id", msg.ID))
		return
	}
	if err := d.sendContactEmail(sub); err != nil {
		d.logger.Error("sending contact email", zap.String("id", msg.ID), zap.Error(err))
		return
	}
	if err := d.store.MarkDelivered(ctx, msg.ID); err != nil {
		d.logger.Warn("marking contact message delivered", zap.String("id", msg.ID), zap.Error(err))
		return
	}
	d.logger.Info("contact email sent", zap.String("id", msg.ID))
}

func (d *contactDelivery) sendContactEmail(sub form.Submission) error {
	if !d.cfg.SMTPConfigured() {
		return errSMTPNotConfigured
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(sub.Name))
	if sub.Subject != "" {
		subject += " - " + headerSafe(sub.Subject)
	}
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, headerSafe(sub.Name), headerSafe(sub.Email), headerSafe(sub.Subject), sub.Message)

	msg := []byte("To: " + d.cfg.ToEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + d.cfg.SMTPUser + "\r\n" +
		"Reply-To: " + headerSafe(sub.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", d.cfg.SMTPUser, d.cfg.SMTPPass, d.cfg.SMTPHost)
	return d.sendMail(d.cfg.SMTPHost+":"+d.cfg.SMTPPort, auth, d.cfg.SMTPUser, []string{d.cfg.ToEmail}, msg)
}

// headerSafe strips line breaks so visitor input cannot add mail headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
