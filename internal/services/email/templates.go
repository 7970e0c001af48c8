package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var templates = template.Must(template.New("email").Parse(`
{{define "welcome"}}<h1>Welcome to ApniSec, {{.Name}}!</h1>
<p>We're excited to have you on board. You can now log in and start managing your security assessments.</p>{{end}}

{{define "reset"}}<h1>Password Reset Request</h1>
<p>You requested a password reset. Click the link below to set a new password:</p>
<p><a href="{{.URL}}">Reset your password</a></p>
<p>This link expires in 10 minutes. If you did not request this, you can ignore this email.</p>{{end}}

{{define "issue"}}<h1>New Issue Created</h1>
<p>Your issue has been logged and our team will review it shortly.</p>
<ul>
<li><strong>Title:</strong> {{.Title}}</li>
<li><strong>Type:</strong> {{.Type}}</li>
<li><strong>Status:</strong> {{.Status}}</li>
</ul>
<p>{{.Description}}</p>{{end}}

{{define "profile"}}<h1>Profile Updated</h1>
<p>Your ApniSec profile was updated. If you did not make this change, please contact support immediately.</p>{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}
