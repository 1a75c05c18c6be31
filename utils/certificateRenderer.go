package utils

import (
	"fmt"
	"strings"
)

// CertificateFields are the placeholder values available to templates.
// Template HTML may reference {{STUDENT_NAME}}, {{COURSE_TITLE}}, {{SCORE}},
// {{ISSUE_DATE}}, {{CERTIFICATE_CODE}} and {{ISSUER}}.
type CertificateFields struct {
	StudentName string
	CourseTitle string
	Score       float64
	IssueDate   string
	Code        string
	Issuer      string
}

func (f CertificateFields) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"{{STUDENT_NAME}}", f.StudentName,
		"{{COURSE_TITLE}}", f.CourseTitle,
		"{{SCORE}}", fmt.Sprintf("%.1f", f.Score),
		"{{ISSUE_DATE}}", f.IssueDate,
		"{{CERTIFICATE_CODE}}", f.Code,
		"{{ISSUER}}", f.Issuer,
	)
}

// FillCertificateTemplate fills template placeholders with the given fields.
// It errors when the template is empty or carries none of the known
// placeholders, so callers can fall back to the generic renderer.
func FillCertificateTemplate(templateHTML string, fields CertificateFields) (string, error) {
	if strings.TrimSpace(templateHTML) == "" {
		return "", fmt.Errorf("empty certificate template")
	}
	if !strings.Contains(templateHTML, "{{STUDENT_NAME}}") && !strings.Contains(templateHTML, "{{CERTIFICATE_CODE}}") {
		return "", fmt.Errorf("certificate template has no known placeholders")
	}
	return fields.replacer().Replace(templateHTML), nil
}

// GenericCertificateHTML renders the built-in certificate document. It is
// the fallback path when no template is bound or template rendering fails,
// and must always succeed.
func GenericCertificateHTML(fields CertificateFields) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.certificate { max-width: 800px; margin: 40px auto; background: #FFFFFF; border: 8px solid #00004D; padding: 60px; text-align: center; }
			.certificate h1 { color: #00004D; font-size: 32px; letter-spacing: 2px; margin-bottom: 10px; }
			.certificate .student { font-size: 28px; color: #d7b56d; margin: 30px 0 10px; }
			.certificate .course { font-size: 20px; color: #00004D; margin-bottom: 30px; }
			.certificate .meta { font-size: 14px; color: #666666; margin-top: 40px; }
			.certificate .code { font-family: monospace; font-size: 16px; color: #00004D; margin-top: 10px; }
		</style>
	</head>
	<body>
		<div class="certificate">
			<h1>CERTIFICATE OF COMPLETION</h1>
			<p>This certifies that</p>
			<div class="student">%s</div>
			<p>has successfully completed</p>
			<div class="course">%s</div>
			<p>with a final score of %.1f%%</p>
			<div class="meta">Issued by %s on %s</div>
			<div class="code">Verification code: %s</div>
		</div>
	</body>
	</html>`,
		fields.StudentName, fields.CourseTitle, fields.Score, fields.Issuer, fields.IssueDate, fields.Code)
}
