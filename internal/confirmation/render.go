package confirmation

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wolfman30/leadflow/internal/leads"
)

var benefits = map[leads.Industry][]string{
	leads.IndustryTechnology:    {"Automate lead routing straight into your product pipeline", "Integrations with the tools your engineers already use", "Analytics that show which campaigns ship real signups"},
	leads.IndustryHealthcare:    {"Patient-friendly follow-ups that respect your workflow", "Reminders that cut no-shows", "Reporting built for busy practices"},
	leads.IndustryFinance:       {"Faster follow-up on high-intent prospects", "Clear audit trails on every touchpoint", "Pipeline visibility for advisors and managers"},
	leads.IndustryEducation:     {"Engage prospective students the moment they reach out", "Enrollment funnels you can actually measure", "Templates for open days and info sessions"},
	leads.IndustryRetail:        {"Turn browsers into loyal customers", "Seasonal campaign playbooks", "Insights into what brings shoppers back"},
	leads.IndustryManufacturing: {"Qualify distributor and buyer inquiries quickly", "Keep quotes moving without manual chasing", "Visibility from first inquiry to purchase order"},
	leads.IndustryConsulting:    {"Respond to new engagements while interest is high", "Nurture sequences that showcase your expertise", "A clear view of your proposal pipeline"},
	leads.IndustryOther:         {"Personalized follow-ups for every new lead", "Simple automation without the setup headache", "Insights that help you grow"},
}

// Benefits returns the benefit list shown for an industry.
func Benefits(industry string) []string {
	if list, ok := benefits[leads.Industry(industry)]; ok {
		return list
	}
	return benefits[leads.IndustryOther]
}

const emailLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Welcome aboard, {{.Name}}!</title>
</head>
<body style="margin:0;padding:0;background:#f4f6fb;font-family:Arial,Helvetica,sans-serif;color:#1f2937;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0"><tr><td align="center" style="padding:32px 16px;">
<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:12px;overflow:hidden;">
<tr><td class="header" style="background:linear-gradient(135deg,#4f46e5,#7c3aed);padding:32px;text-align:center;color:#ffffff;">
<h1 style="margin:0;font-size:26px;">Welcome aboard, {{.Name}}!</h1>
<p style="margin:8px 0 0;font-size:15px;">Your {{.IndustryLabel}} journey starts here</p>
</td></tr>
<tr><td class="message" style="padding:32px;font-size:16px;line-height:1.6;">
{{range .Paragraphs}}<p style="margin:0 0 16px;">{{.}}</p>
{{end}}</td></tr>
<tr><td class="benefits" style="padding:0 32px 32px;">
<h2 style="font-size:18px;margin:0 0 12px;">What we can do for {{.IndustryLabel}} teams</h2>
<ul style="margin:0;padding-left:20px;line-height:1.8;">
{{range .Benefits}}<li>{{.}}</li>
{{end}}</ul>
</td></tr>
<tr><td class="footer" style="background:#f9fafb;padding:24px 32px;font-size:12px;color:#6b7280;text-align:center;">
<p style="margin:0;">You received this email because you signed up with {{.SenderName}}.</p>
<p style="margin:8px 0 0;">&copy; {{.Year}} {{.SenderName}}. All rights reserved.</p>
</td></tr>
</table>
</td></tr></table>
</body>
</html>
`

var emailTemplate = template.Must(template.New("confirmation").Parse(emailLayout))

type emailView struct {
	Name          string
	IndustryLabel string
	Paragraphs    []string
	Benefits      []string
	SenderName    string
	Year          int
}

// Renderer builds the HTML email. All interpolated values are escaped.
type Renderer struct {
	senderName string
	now        func() time.Time
}

func NewRenderer(senderName string) *Renderer {
	if senderName == "" {
		senderName = "LeadFlow"
	}
	return &Renderer{senderName: senderName, now: time.Now}
}

// Render fills the layout with the lead and message body.
func (r *Renderer) Render(lead leads.LeadInput, message string) (string, error) {
	view := emailView{
		Name:          lead.Name,
		IndustryLabel: leads.Industry(lead.Industry).Label(),
		Paragraphs:    paragraphs(message),
		Benefits:      Benefits(lead.Industry),
		SenderName:    r.senderName,
		Year:          r.now().Year(),
	}
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("confirmation: render template: %w", err)
	}
	return buf.String(), nil
}

// Subject is the templated subject line.
func Subject(name string) string {
	return fmt.Sprintf("Welcome aboard, %s!", strings.TrimSpace(name))
}

func paragraphs(message string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
