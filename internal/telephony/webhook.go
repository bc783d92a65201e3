package telephony

import (
	"net/http"
	"strings"

	"calldesk/internal/routing"
)

// VoiceForm captures the subset of voice webhook fields we care about.
// The provider sends application/x-www-form-urlencoded by default.
//
// Keep it minimal and provider-adapter-only. Routing decisions are not
// made here.

type VoiceForm struct {
	CallSid    string
	AccountSid string
	From       string
	To         string
	Direction  string
	CallStatus string
}

func ParseVoiceForm(r *http.Request) (VoiceForm, error) {
	if err := r.ParseForm(); err != nil {
		return VoiceForm{}, err
	}
	return VoiceForm{
		CallSid:    strings.TrimSpace(r.PostFormValue("CallSid")),
		AccountSid: strings.TrimSpace(r.PostFormValue("AccountSid")),
		From:       strings.TrimSpace(r.PostFormValue("From")),
		To:         strings.TrimSpace(r.PostFormValue("To")),
		Direction:  r.PostFormValue("Direction"),
		CallStatus: r.PostFormValue("CallStatus"),
	}, nil
}

// ToCallEvent converts the webhook form to the router's event type.
// A missing From is presented as the anonymous client identity.
func (f VoiceForm) ToCallEvent() routing.CallEvent {
	from := f.From
	if from == "" {
		from = routing.AnonymousCaller
	}
	return routing.CallEvent{
		To:      f.To,
		From:    from,
		CallSid: f.CallSid,
	}
}

// StatusForm carries a call progress push-back. Acknowledged and
// recorded for observability only; it never feeds back into routing or
// reservation state.
type StatusForm struct {
	CallSid    string
	CallStatus string
}

func ParseStatusForm(r *http.Request) (StatusForm, error) {
	if err := r.ParseForm(); err != nil {
		return StatusForm{}, err
	}
	return StatusForm{
		CallSid:    strings.TrimSpace(r.PostFormValue("CallSid")),
		CallStatus: strings.TrimSpace(r.PostFormValue("CallStatus")),
	}, nil
}
