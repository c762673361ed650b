package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// LinkEmailData holds data for emails that carry a single action link.
type LinkEmailData struct {
	SiteName  string
	Name      string
	Link      string
	ExpiresIn string
}

var linkTemplate = template.Must(template.New("link").Parse(linkHTMLTemplate))

// BuildVerificationEmail creates the email-address verification message.
func BuildVerificationEmail(to string, data LinkEmailData) Email {
	return buildLinkEmail(to,
		fmt.Sprintf("Verify your %s email", data.SiteName),
		"Confirm your email address by opening the link below:",
		data)
}

// BuildPasswordResetEmail creates the password reset message.
func BuildPasswordResetEmail(to string, data LinkEmailData) Email {
	return buildLinkEmail(to,
		fmt.Sprintf("Reset your %s password", data.SiteName),
		"Choose a new password by opening the link below:",
		data)
}

func buildLinkEmail(to, subject, lead string, data LinkEmailData) Email {
	var text bytes.Buffer
	fmt.Fprintf(&text, "Hi %s,\n\n", data.Name)
	text.WriteString(lead + "\n")
	text.WriteString(data.Link + "\n\n")
	fmt.Fprintf(&text, "This link expires in %s.\n\n", data.ExpiresIn)
	text.WriteString("If you did not request this, you can safely ignore this email.\n")

	var html bytes.Buffer
	_ = linkTemplate.Execute(&html, struct {
		LinkEmailData
		Lead string
	}{data, lead})

	return Email{
		To:       to,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}
}

const linkHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f3f4f6; padding: 32px;">
  <div style="max-width: 480px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; padding: 32px;">
    <h1 style="margin: 0 0 24px; font-size: 22px; color: #4f46e5;">{{.SiteName}}</h1>
    <p style="font-size: 16px; color: #374151;">Hi {{.Name}},</p>
    <p style="font-size: 16px; color: #374151;">{{.Lead}}</p>
    <p style="text-align: center; margin: 32px 0;">
      <a href="{{.Link}}" style="padding: 12px 28px; background-color: #4f46e5; color: #ffffff; text-decoration: none; border-radius: 6px;">Continue</a>
    </p>
    <p style="font-size: 13px; color: #9ca3af;">This link expires in {{.ExpiresIn}}.</p>
  </div>
</body>
</html>`
