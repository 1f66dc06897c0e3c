package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

const invitationSubjectFmt = "You're invited: %s"

const invitationHTMLTmpl = `<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #333;">
    <h2>{{.Title}}</h2>
    {{if .Message}}<p>{{.Message}}</p>{{end}}
    <p>You've been invited to share a memory. Open the link below to add yours:</p>
    <p><a href="{{.InviteURL}}">{{.InviteURL}}</a></p>
  </body>
</html>`

var invitationTmpl = template.Must(template.New("invitation").Parse(invitationHTMLTmpl))

type invitationContext struct {
	Title     string
	Message   string
	InviteURL string
}

// SendInvitation renders and sends the invitation email for a new invite
// link.
func (r *Resend) SendInvitation(ctx context.Context, toEmail, title, message, inviteURL string) error {
	var html bytes.Buffer
	if err := invitationTmpl.Execute(&html, invitationContext{
		Title:     title,
		Message:   message,
		InviteURL: inviteURL,
	}); err != nil {
		return fmt.Errorf("failed to render invitation email: %w", err)
	}

	_, err := r.Send(ctx, &EmailData{
		To:      []string{toEmail},
		Subject: fmt.Sprintf(invitationSubjectFmt, title),
		HTML:    html.String(),
	})
	return err
}
