package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleFields = CertificateFields{
	StudentName: "Grace Hopper",
	CourseTitle: "Compilers 101",
	Score:       92.5,
	IssueDate:   "01 Mar 2026",
	Code:        "A1B2C3D4E5F6",
	Issuer:      "Coursebox",
}

func TestFillCertificateTemplate(t *testing.T) {
	tpl := "<h1>{{STUDENT_NAME}}</h1><p>{{COURSE_TITLE}} - {{SCORE}}% on {{ISSUE_DATE}}</p><span>{{CERTIFICATE_CODE}} / {{ISSUER}}</span>"

	out, err := FillCertificateTemplate(tpl, sampleFields)
	require.NoError(t, err)
	assert.Contains(t, out, "Grace Hopper")
	assert.Contains(t, out, "Compilers 101")
	assert.Contains(t, out, "92.5%")
	assert.Contains(t, out, "A1B2C3D4E5F6")
	assert.NotContains(t, out, "{{")
}

func TestFillCertificateTemplateRejectsBadTemplates(t *testing.T) {
	_, err := FillCertificateTemplate("", sampleFields)
	assert.Error(t, err)

	_, err = FillCertificateTemplate("   \n\t ", sampleFields)
	assert.Error(t, err)

	_, err = FillCertificateTemplate("<h1>static page with no placeholders</h1>", sampleFields)
	assert.Error(t, err)
}

func TestGenericCertificateHTML(t *testing.T) {
	out := GenericCertificateHTML(sampleFields)

	assert.True(t, strings.Contains(out, "Grace Hopper"))
	assert.Contains(t, out, "Compilers 101")
	assert.Contains(t, out, "92.5%")
	assert.Contains(t, out, "Verification code: A1B2C3D4E5F6")
	assert.Contains(t, out, "CERTIFICATE OF COMPLETION")
}
