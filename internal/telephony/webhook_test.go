package telephony

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calldesk/internal/routing"
)

func postForm(t *testing.T, path, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestParseVoiceForm(t *testing.T) {
	r := postForm(t, "/webhooks/voice", "CallSid=CA123&From=%2B15551234567&To=client%3Aalice")

	form, err := ParseVoiceForm(r)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if form.CallSid != "CA123" {
		t.Fatalf("expected CallSid, got %q", form.CallSid)
	}
	if form.From != "+15551234567" || form.To != "client:alice" {
		t.Fatalf("unexpected from/to: %q %q", form.From, form.To)
	}
}

func TestVoiceForm_ToCallEventDefaultsAnonymous(t *testing.T) {
	ev := VoiceForm{To: "client:alice"}.ToCallEvent()
	if ev.From != routing.AnonymousCaller {
		t.Fatalf("expected anonymous default, got %q", ev.From)
	}
	if ev.CallSid != "" {
		t.Fatalf("expected no call sid, got %q", ev.CallSid)
	}
}

func TestParseStatusForm(t *testing.T) {
	r := postForm(t, "/webhooks/voice/status", "CallSid=CA123&CallStatus=completed")

	form, err := ParseStatusForm(r)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if form.CallSid != "CA123" || form.CallStatus != "completed" {
		t.Fatalf("unexpected form: %+v", form)
	}
}
