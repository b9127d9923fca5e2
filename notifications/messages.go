package notifications

import (
	"bytes"
	"html/template"

	"github.com/rs/zerolog/log"
)

// Message is a rendered email ready for SendEmail.
type Message struct {
	Subject string
	HTML    string
}

var messageTemplates = template.Must(template.New("emails").Parse(`
{{define "credentials"}}<h2>Your interview is scheduled</h2>
<p>Hello {{.Name}},</p>
<p>You have been scheduled for the <strong>{{.Position}}</strong> assessment on {{.Schedule}}.</p>
<p>Login email: <strong>{{.Email}}</strong><br>Temporary password: <strong>{{.Password}}</strong></p>
<p>You can sign in at <a href="{{.Link}}">{{.Link}}</a> from your scheduled time.</p>{{end}}

{{define "invitation"}}<h2>You are invited to an assessment</h2>
<p>You have been invited to take the <strong>{{.Position}}</strong> assessment.</p>
<p><a href="{{.Link}}">Complete your registration</a>. This link expires on {{.Expires}}.</p>{{end}}

{{define "result"}}<h2>Test submitted</h2>
<p>{{.Name}} submitted attempt {{.Attempt}} for <strong>{{.Position}}</strong>.</p>
<p>Score: <strong>{{printf "%.2f" .Score}}%</strong> ({{.Correct}} of {{.Total}} correct)</p>{{end}}

{{define "retest"}}<h2>Retest request {{.Status}}</h2>
<p>Hello {{.Name}},</p>
<p>Your retest request for <strong>{{.Position}}</strong> was {{.Status}}.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
{{if eq .Status "approved"}}<p>You can sign in again at <a href="{{.Link}}">{{.Link}}</a>.</p>{{end}}{{end}}

{{define "reminder"}}<h2>Your interview starts soon</h2>
<p>Hello {{.Name}},</p>
<p>Your <strong>{{.Position}}</strong> assessment starts at {{.Schedule}}. Sign in at <a href="{{.Link}}">{{.Link}}</a>.</p>{{end}}

{{define "reset"}}<h1>Password Reset</h1>
<p>Click the link below to reset your password. This link is valid for 15 minutes.</p>
<p><a href="{{.Link}}">Reset Password</a></p>{{end}}
`))

func render(name, subject string, data interface{}) (Message, error) {
	var buf bytes.Buffer
	if err := messageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, err
	}
	return Message{Subject: subject, HTML: buf.String()}, nil
}

type CredentialsData struct {
	Name     string
	Email    string
	Password string
	Position string
	Schedule string
	Link     string
}

func CredentialsEmail(d CredentialsData) (Message, error) {
	return render("credentials", "Your interview login details", d)
}

type InvitationData struct {
	Position string
	Link     string
	Expires  string
}

func InvitationEmail(d InvitationData) (Message, error) {
	return render("invitation", "Invitation to an online assessment", d)
}

type ResultData struct {
	Name     string
	Position string
	Attempt  int
	Score    float64
	Correct  int
	Total    int
}

func ResultEmail(d ResultData) (Message, error) {
	return render("result", "Test submitted: "+d.Name, d)
}

type RetestData struct {
	Name     string
	Position string
	Status   string
	Reason   string
	Link     string
}

func RetestDecisionEmail(d RetestData) (Message, error) {
	return render("retest", "Your retest request was "+d.Status, d)
}

type ReminderData struct {
	Name     string
	Position string
	Schedule string
	Link     string
}

func ReminderEmail(d ReminderData) (Message, error) {
	return render("reminder", "Reminder: your interview starts soon", d)
}

func PasswordResetEmail(link string) (Message, error) {
	return render("reset", "Your Password Reset Link", struct{ Link string }{link})
}

// Deliver sends a built message, or logs the error returned by its builder.
func Deliver(toName, toEmail string, msg Message, err error) {
	if err != nil {
		log.Error().Err(err).Str("to", toEmail).Msg("failed to render email")
		return
	}
	SendEmail(toName, toEmail, msg.Subject, msg.HTML)
}
