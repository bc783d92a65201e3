package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strconv"
	"strings"

	"calldesk/internal/routing"
)

// TwiML is a minimal Twilio Markup Language response builder.
// It intentionally avoids any provider SDK dependency.
//
// Only include primitives we need at the adapter boundary.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName  xml.Name `xml:"Say"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type twimlDial struct {
	XMLName        xml.Name     `xml:"Dial"`
	Timeout        string       `xml:"timeout,attr,omitempty"`
	AnswerOnBridge string       `xml:"answerOnBridge,attr,omitempty"`
	CallerID       string       `xml:"callerId,attr,omitempty"`
	Client         string       `xml:"Client,omitempty"`
	Sip            *twimlSip    `xml:"Sip,omitempty"`
	Number         *twimlNumber `xml:"Number,omitempty"`
}

type twimlSip struct {
	URI string `xml:",chardata"`
}

type twimlNumber struct {
	StatusCallback      string `xml:"statusCallback,attr,omitempty"`
	StatusCallbackEvent string `xml:"statusCallbackEvent,attr,omitempty"`
	Number              string `xml:",chardata"`
}

// RenderTwiML maps a routing decision to a TwiML document.
func RenderTwiML(d routing.Decision) (string, error) {
	var r twimlResponse

	switch d.Action {
	case routing.ActionSay:
		if strings.TrimSpace(d.Message) == "" {
			return "", errors.New("telephony: message required for say action")
		}
		r.Verbs = append(r.Verbs, twimlSay{Language: d.Language, Text: d.Message})

	case routing.ActionConnect:
		if strings.TrimSpace(d.Target.Address) == "" {
			return "", errors.New("telephony: target address required for connect action")
		}
		dial := twimlDial{
			Timeout:  strconv.Itoa(d.TimeoutSeconds),
			CallerID: d.CallerID,
		}
		if d.AnswerOnBridge {
			dial.AnswerOnBridge = "true"
		}
		switch d.Target.Kind {
		case routing.TargetClient:
			dial.Client = d.Target.Address
		case routing.TargetSIP:
			dial.Sip = &twimlSip{URI: d.Target.Address}
		case routing.TargetPhone:
			dial.Number = &twimlNumber{
				Number:              d.Target.Address,
				StatusCallback:      d.StatusCallbackURL,
				StatusCallbackEvent: strings.Join(d.StatusCallbackEvents, " "),
			}
		default:
			return "", errors.New("telephony: unroutable target kind")
		}
		r.Verbs = append(r.Verbs, dial)

	default:
		return "", errors.New("telephony: unknown decision action")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
