package routing

import (
	"context"
	"log/slog"

	"calldesk/pkg/logger"
)

// Router turns a call event into a connection decision or a spoken
// fallback.
//
// Rules:
//   - Return routing decisions only. No side effects (no DB writes,
//     no provider calls).
//   - Route never fails past its boundary: any condition that prevents
//     building a connection instruction degrades to an audible message
//     so the far end never hears a dropped or garbled signal.
type Router struct {
	// VerifiedCallerID is the provider-verified number presented on
	// PSTN calls. Empty means none is configured.
	VerifiedCallerID string

	// StatusCallbackURL receives call progress events for phone
	// targets. Empty disables status callbacks.
	StatusCallbackURL string
}

// CallEvent is an inbound or outbound call event at the provider
// boundary. CallSid is present only for provider-originated inbound
// calls and distinguishes the two operating modes.
type CallEvent struct {
	To      string `json:"to"`
	From    string `json:"from"`
	CallSid string `json:"call_sid,omitempty"`
}

// Fallback messages. The far end hears these instead of an error.
const (
	msgNoDestination = "No destination specified."
	msgNoOneHere     = "Thank you for calling. No one is available to take your call."
	msgInternalError = "We are sorry, an application error has occurred. Goodbye."
)

func NewRouter(verifiedCallerID, statusCallbackURL string) *Router {
	return &Router{
		VerifiedCallerID:  verifiedCallerID,
		StatusCallbackURL: statusCallbackURL,
	}
}

// Route produces the decision for a call event.
func (r *Router) Route(ctx context.Context, ev CallEvent) Decision {
	if r == nil {
		return say(msgInternalError)
	}

	if ev.CallSid != "" {
		return r.routeInbound(ctx, ev)
	}
	return r.routeOutbound(ctx, ev)
}

// routeOutbound handles relay-mode events: the caller asked us to dial
// a destination on their behalf.
func (r *Router) routeOutbound(ctx context.Context, ev CallEvent) Decision {
	target := Classify(ev.To)
	if target.Kind == TargetUnspecified {
		return say(msgNoDestination)
	}

	callerID, warn := ResolveCallerID(ev.From, target.Kind, r.VerifiedCallerID)
	if warn {
		logger.From(ctx).Warn("dialing PSTN without a verified caller id",
			"to", target.Address, "caller_id", callerID)
	}

	d := Decision{
		Action:         ActionConnect,
		Target:         target,
		CallerID:       callerID,
		TimeoutSeconds: DialTimeoutSeconds,
		AnswerOnBridge: true,
	}
	if target.Kind == TargetPhone && r.StatusCallbackURL != "" {
		d.StatusCallbackURL = r.StatusCallbackURL
		d.StatusCallbackEvents = StatusCallbackEvents
	}
	return d
}

// routeInbound handles provider-originated calls. Only same-service
// client targets are connectable; everything else hears the
// no-one-available message. CallSid and From are logged for audit but
// not persisted here.
func (r *Router) routeInbound(ctx context.Context, ev CallEvent) Decision {
	log := logger.From(ctx)
	log.Info("inbound call", "call_sid", ev.CallSid, "from", ev.From, "to", ev.To)

	target := Classify(ev.To)
	if target.Kind != TargetClient || target.Address == "" {
		log.Info("inbound call has no routable client target",
			slog.String("call_sid", ev.CallSid), slog.String("kind", string(target.Kind)))
		return say(msgNoOneHere)
	}

	callerID, _ := ResolveCallerID(ev.From, target.Kind, r.VerifiedCallerID)
	return Decision{
		Action:         ActionConnect,
		Target:         target,
		CallerID:       callerID,
		TimeoutSeconds: DialTimeoutSeconds,
		AnswerOnBridge: true,
	}
}

func say(msg string) Decision {
	return Decision{Action: ActionSay, Message: msg, Language: DefaultLanguage}
}
