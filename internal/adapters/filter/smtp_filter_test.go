package filter

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

func newTestFilter(modifySubject bool) *SMTPFilter {
	return NewSMTPFilter(
		nil,
		zap.NewNop(),
		"127.0.0.1:0",
		false,
		"X-Phishing-Status",
		"X-Phishing-Score",
		"X-Phishing-Reason",
		"",
		25,
		false,
		"",
		modifySubject,
	)
}

func TestTagMessage(t *testing.T) {
	f := newTestFilter(false)
	raw := []byte("From: a@b.com\r\nSubject: Hello\r\n\r\nbody\r\n")
	result := &core.AnalysisResult{
		Verdict: core.Verdict{IsPhishing: true, Confidence: 0.9123, Source: core.SourceModel},
	}

	tagged := string(f.tagMessage(raw, result))

	if !strings.HasPrefix(tagged, "X-Phishing-Status: Yes\r\n") {
		t.Errorf("tagged = %q, want status header first", tagged)
	}
	if !strings.Contains(tagged, "X-Phishing-Score: 0.9123\r\n") {
		t.Errorf("tagged = %q, want score header", tagged)
	}
	if !strings.Contains(tagged, "X-Phishing-Reason: source=model\r\n") {
		t.Errorf("tagged = %q, want reason header", tagged)
	}
	if !strings.HasSuffix(tagged, string(raw)) {
		t.Error("original message should follow the tag headers unchanged")
	}
}

func TestTagMessage_CleanVerdict(t *testing.T) {
	f := newTestFilter(true)
	raw := []byte("Subject: Hello\r\n\r\nbody\r\n")
	result := &core.AnalysisResult{
		Verdict: core.Verdict{IsPhishing: false, Confidence: 0.2, Source: core.SourceHeuristic},
	}

	tagged := string(f.tagMessage(raw, result))

	if !strings.Contains(tagged, "X-Phishing-Status: No\r\n") {
		t.Errorf("tagged = %q, want a No status", tagged)
	}
	if strings.Contains(tagged, "[**PHISHING**]") {
		t.Error("clean messages must keep their subject")
	}
}

func TestTagMessage_SubjectPrefix(t *testing.T) {
	f := newTestFilter(true)
	raw := []byte("From: a@b.com\r\nSubject: Invoice due\r\n\r\nbody\r\n")
	result := &core.AnalysisResult{
		Verdict: core.Verdict{IsPhishing: true, Confidence: 0.95, Source: core.SourceModel},
	}

	tagged := string(f.tagMessage(raw, result))

	if !strings.Contains(tagged, "Subject: [**PHISHING**] Invoice due\r\n") {
		t.Errorf("tagged = %q, want the prefixed subject", tagged)
	}
	if strings.Contains(tagged, "Subject: Invoice due\r\n") {
		t.Error("original subject line should be rewritten")
	}
}

func TestPrefixSubject_LFOnlyMessage(t *testing.T) {
	f := newTestFilter(true)
	raw := []byte("From: a@b.com\nSubject: Check this\n\nbody\n")

	got := string(f.prefixSubject(raw))

	if !strings.Contains(got, "Subject: [**PHISHING**] Check this\n") {
		t.Errorf("got = %q, want the prefixed subject", got)
	}
	if !strings.HasSuffix(got, "\n\nbody\n") {
		t.Errorf("got = %q, body must be untouched", got)
	}
}

func TestPrefixSubject_NoSubjectHeader(t *testing.T) {
	f := newTestFilter(true)
	raw := []byte("From: a@b.com\r\n\r\nbody\r\n")

	got := f.prefixSubject(raw)

	if string(got) != string(raw) {
		t.Errorf("got = %q, want the message unchanged", got)
	}
}
