package email

import (
	"bytes"
	"html/template"
)

var leadSoldTmpl = template.Must(template.New("lead_sold").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1a1a1a;">
  <h2>New qualified lead</h2>
  <p>Hi {{.BuyerName}},</p>
  <p>A new lead matching your criteria has been delivered to your webhook endpoint.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Company</strong></td><td>{{.Company}}</td></tr>
    <tr><td><strong>Score</strong></td><td>{{.Score}}</td></tr>
    <tr><td><strong>Reference</strong></td><td>{{.LeadID}}</td></tr>
  </table>
  <p>Full details are in the webhook payload already sent to your endpoint.</p>
</body>
</html>`))

func renderLeadSold(data LeadSoldData) (string, error) {
	var buf bytes.Buffer
	if err := leadSoldTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
