package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// Config holds the SMTP settings used for admin notifications.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       string
}

// EmailService sends notification mail over SMTP.
type EmailService struct {
	cfg  Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// SubmissionEmailData is rendered into the new-submission notification.
type SubmissionEmailData struct {
	PersonID      string
	Name          string
	Gender        string
	Religion      string
	ContactNumber string
	Email         string
	ReviewURL     string
}

func NewEmailService(cfg Config) *EmailService {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &EmailService{cfg: cfg, send: smtp.SendMail}
}

var submissionTemplate = template.Must(template.New("submission").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Profile Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #8b1e3f; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .label { font-weight: bold; color: #555; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>New Profile Submission</h1></div>
        <div class="content">
            <p><span class="label">Name:</span> {{.Name}}</p>
            <p><span class="label">Gender:</span> {{.Gender}}</p>
            <p><span class="label">Religion:</span> {{.Religion}}</p>
            {{if .ContactNumber}}<p><span class="label">Contact:</span> {{.ContactNumber}}</p>{{end}}
            {{if .Email}}<p><span class="label">Email:</span> {{.Email}}</p>{{end}}
            <p>The profile is pending approval.{{if .ReviewURL}} Review it at <a href="{{.ReviewURL}}">{{.ReviewURL}}</a>.{{end}}</p>
        </div>
        <div class="footer"><p>Profile ID {{.PersonID}}</p></div>
    </div>
</body>
</html>`))

// SendSubmissionNotification tells the admin inbox about a pending public submission.
func (s *EmailService) SendSubmissionNotification(data SubmissionEmailData) error {
	var body bytes.Buffer
	if err := submissionTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: New profile submission: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.cfg.From,
		s.cfg.To,
		data.Name,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.From, []string{s.cfg.To}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured reports whether SMTP credentials and a recipient are set.
func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.To != ""
}
