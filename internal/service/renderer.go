package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/brightside-platform/alert-service/internal/domain/model"
)

// RenderAlertParams groups the five variable fields interpolated into the
// fixed alert template, plus the triggering message quoted verbatim.
type RenderAlertParams struct {
	SubjectName string
	Severity    model.AlertSeverity
	Score       float64
	Message     string
	Timestamp   time.Time
	// RelationshipLabel is the first eligible contact's relationship,
	// surfaced as "Your Relationship" in the detail block.
	RelationshipLabel string
}

// alertSubjectFormat embeds tier and subject name in the message subject line.
const alertSubjectFormat = "🚨 %s ALERT: Emotional Support Needed for %s"

// alertHTMLTemplate is the fixed structural template for the rich body:
// header, detail block, quoted triggering message, recommended-actions list,
// crisis-resources list, and footer. Only the fields in RenderAlertParams are
// interpolated; the triggering message is inserted verbatim, and escaping for
// the output medium is the transport's concern.
//
// Interpolation order: 1=name 2=severity 3=score 4=timestamp 5=relationship 6=message.
const alertHTMLTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="background: linear-gradient(135deg, #ff6b6b, #ee5a24); color: white; padding: 20px; text-align: center;">
<h1 style="margin: 0; font-size: 24px;">🚨 Emergency Alert</h1>
<p style="margin: 5px 0 0 0; font-size: 16px;">High Emotional Distress Detected</p>
</div>
<div style="background: #f8f9fa; padding: 20px; border: 1px solid #dee2e6;">
<h2>Immediate Attention Required</h2>
<p><strong>%[1]s</strong> is experiencing significant emotional distress and may need immediate support.</p>
<h3>Alert Details:</h3>
<ul>
<li><strong>Severity Level:</strong> %[2]s</li>
<li><strong>Distress Score:</strong> %[3]s/100</li>
<li><strong>Timestamp:</strong> %[4]s</li>
<li><strong>Your Relationship:</strong> %[5]s</li>
</ul>
<h3>Recent Message:</h3>
<p>"%[6]s"</p>
<h3>🤝 Recommended Actions:</h3>
<ul>
<li>Reach out to %[1]s immediately via phone or text</li>
<li>Ask open-ended questions about their feelings</li>
<li>Listen actively and validate their emotions</li>
<li>Encourage professional help if needed</li>
<li>Follow up within 24 hours</li>
</ul>
<h3>📞 Crisis Resources:</h3>
<ul>
<li><strong>National Suicide Prevention Lifeline:</strong> 988</li>
<li><strong>Crisis Text Line:</strong> Text HOME to 741741</li>
<li><strong>International Association for Suicide Prevention:</strong> iasp.info</li>
</ul>
<hr>
<p><small>This is an automated alert from the BrightSide Emotional Support Platform.
For technical issues, please contact support.</small></p>
</div>
</div>`

// plainTextRules is the fixed, ordered set of structural-marker rewrites used
// to derive the plain-text fallback from the rich body. Section headings
// become line breaks, emphasis markers are removed, list items get a "- "
// prefix, and a horizontal divider becomes a run of 40 dashes. Each rule is
// applied in order; input lacking a marker passes through unchanged for that
// rule, so the derivation is total and deterministic.
var plainTextRules = []struct {
	marker      string
	replacement string
}{
	{"<h2>", ""}, {"</h2>", "\n\n"},
	{"<h3>", ""}, {"</h3>", "\n"},
	{"<p>", ""}, {"</p>", "\n"},
	{"<strong>", ""}, {"</strong>", ""},
	{"<ul>", "\n"}, {"</ul>", "\n"},
	{"<li>", "- "}, {"</li>", "\n"},
	{"<hr>", strings.Repeat("-", 40) + "\n"},
	{"<small>", ""}, {"</small>", ""},
}

// RenderAlert builds the full notification for one dispatch. Rendering is a
// pure function of its inputs and never fails.
func RenderAlert(p RenderAlertParams) model.RenderedAlert {
	subject := fmt.Sprintf(alertSubjectFormat, p.Severity, p.SubjectName)

	htmlBody := fmt.Sprintf(alertHTMLTemplate,
		p.SubjectName,
		p.Severity,
		formatScore(p.Score),
		p.Timestamp.Format("2006-01-02 15:04:05"),
		// Casers are stateful, so build one per render.
		cases.Title(language.English).String(p.RelationshipLabel),
		p.Message,
	)

	return model.RenderedAlert{
		Subject:   subject,
		HTMLBody:  htmlBody,
		PlainBody: DerivePlainText(htmlBody),
		Severity:  p.Severity,
		Timestamp: p.Timestamp,
	}
}

// DerivePlainText mechanically strips the rich body's structural markers.
// Exported so the transport's message assembly can be verified against the
// exact same derivation.
func DerivePlainText(htmlBody string) string {
	plain := htmlBody
	for _, rule := range plainTextRules {
		plain = strings.ReplaceAll(plain, rule.marker, rule.replacement)
	}
	return plain
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
