package mailer

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/utafrali/storefront/internal/domain"
)

var subjectTemplate = texttemplate.Must(texttemplate.New("subject").Parse(
	`New Contact Form Submission from {{.Name}}`))

var htmlTemplate = htmltemplate.Must(htmltemplate.New("html").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #333; padding-bottom: 10px;">New Contact Form Submission</h2>
  <div style="margin: 20px 0;">
    <h3 style="color: #555; margin-bottom: 5px;">From:</h3>
    <p style="margin: 0; font-size: 16px;"><strong>{{.Name}}</strong></p>
    <p style="margin: 0; color: #666;">{{.Email}}</p>
  </div>
  <div style="margin: 20px 0;">
    <h3 style="color: #555; margin-bottom: 10px;">Message:</h3>
    <div style="background: #f9f9f9; padding: 15px; border-radius: 5px; border-left: 4px solid #333;">
      <p style="margin: 0; line-height: 1.6; white-space: pre-wrap;">{{.Message}}</p>
    </div>
  </div>
  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; color: #888; font-size: 12px;">
    <p>This email was sent from your website's contact form.</p>
  </div>
</div>
`))

var textTemplate = texttemplate.Must(texttemplate.New("text").Parse(`New Contact Form Submission

From: {{.Name}}
Email: {{.Email}}

Message:
{{.Message}}

---
This email was sent from your website's contact form.
`))

// rendered is a contact message formatted for email delivery.
type rendered struct {
	Subject string
	HTML    string
	Text    string
}

func render(msg domain.ContactMessage) (rendered, error) {
	var subject, html, text strings.Builder
	if err := subjectTemplate.Execute(&subject, msg); err != nil {
		return rendered{}, err
	}
	if err := htmlTemplate.Execute(&html, msg); err != nil {
		return rendered{}, err
	}
	if err := textTemplate.Execute(&text, msg); err != nil {
		return rendered{}, err
	}
	return rendered{
		Subject: strings.Join(strings.Fields(subject.String()), " "),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
