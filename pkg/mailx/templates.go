package mailx

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// InvitationData fills the tenant invitation email.
type InvitationData struct {
	PropertyName string
	Code         string
	LandlordName string
	SignupURL    string
	ValidDays    int
}

// CancellationData fills the cancellation notice.
type CancellationData struct {
	PropertyName string
}

var (
	invitationHTML = htmltemplate.Must(htmltemplate.New("invitation").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Property Viewing Invitation</h2>
  <p>Hello!</p>
  <p>You've been invited by <strong>{{.LandlordName}}</strong> to view the property: <strong>{{.PropertyName}}</strong></p>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Your Invitation Code</h3>
    <div style="background-color: #ffffff; padding: 15px; border: 2px dashed #2563eb; border-radius: 6px; text-align: center;">
      <span style="font-size: 24px; font-weight: bold; color: #2563eb; letter-spacing: 2px;">{{.Code}}</span>
    </div>
    <p style="font-size: 14px; color: #6b7280; margin-top: 10px;">Use this code when signing up to access the property details.</p>
  </div>
  <p><strong>Important:</strong></p>
  <ul>
    <li>This invitation code is required for tenant registration</li>
    <li>The code expires in {{.ValidDays}} days</li>
    <li>Each code can only be used once</li>
  </ul>
  <p>Click the link below to sign up:</p>
  <a href="{{.SignupURL}}" style="display: inline-block; background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 20px 0;">Sign Up as Tenant</a>
  <p style="color: #6b7280; font-size: 14px;">If you have any questions, please contact the landlord directly.</p>
</div>
`))

	invitationText = texttemplate.Must(texttemplate.New("invitation").Parse(`Property Viewing Invitation

Hello!

You've been invited by {{.LandlordName}} to view the property: {{.PropertyName}}

Your Invitation Code: {{.Code}}

Use this code when signing up to access the property details.

Important:
- This invitation code is required for tenant registration
- The code expires in {{.ValidDays}} days
- Each code can only be used once

Sign up at: {{.SignupURL}}

If you have any questions, please contact the landlord directly.
`))

	cancellationHTML = htmltemplate.Must(htmltemplate.New("cancellation").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #dc2626;">Invitation Cancelled</h2>
  <p>Hello!</p>
  <p>Your invitation to view <strong>{{.PropertyName}}</strong> has been cancelled by the landlord.</p>
  <div style="background-color: #fef2f2; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #dc2626;">
    <h3 style="margin-top: 0; color: #dc2626;">What This Means</h3>
    <ul style="color: #6b7280;">
      <li>Your invitation code is no longer valid</li>
      <li>You cannot use this code to sign up</li>
      <li>The property may no longer be available</li>
    </ul>
  </div>
  <p style="color: #6b7280; font-size: 14px;">If you have any questions about this cancellation, please contact the landlord directly.</p>
</div>
`))

	cancellationText = texttemplate.Must(texttemplate.New("cancellation").Parse(`Invitation Cancelled

Hello!

Your invitation to view {{.PropertyName}} has been cancelled by the landlord.

What This Means:
- Your invitation code is no longer valid
- You cannot use this code to sign up
- The property may no longer be available

If you have any questions about this cancellation, please contact the landlord directly.
`))
)

// InvitationEmail renders the invitation sent to a prospective tenant.
func InvitationEmail(to string, d InvitationData) (Message, error) {
	return render(to, fmt.Sprintf("You're invited to view %s", d.PropertyName), d, invitationHTML, invitationText)
}

// CancellationEmail renders the notice sent when a landlord withdraws an
// invitation.
func CancellationEmail(to string, d CancellationData) (Message, error) {
	return render(to, fmt.Sprintf("Invitation Cancelled for %s", d.PropertyName), d, cancellationHTML, cancellationText)
}

func render(to, subject string, data any, h *htmltemplate.Template, t *texttemplate.Template) (Message, error) {
	var hb, tb bytes.Buffer
	if err := h.Execute(&hb, data); err != nil {
		return Message{}, fmt.Errorf("mailx: render html: %w", err)
	}
	if err := t.Execute(&tb, data); err != nil {
		return Message{}, fmt.Errorf("mailx: render text: %w", err)
	}
	return Message{To: to, Subject: subject, HTML: hb.String(), Text: tb.String()}, nil
}
