package routing

// Decision is the provider-agnostic output of the call router.
//
// It must contain *only* information required for the provider adapter
// boundary (the TwiML builder) to execute the decision. No provider
// identity and no provider-specific fields belong here.

type Decision struct {
	Action Action `json:"action"`

	// Connect fields (Action == ActionConnect).
	Target         Target `json:"target,omitempty"`
	CallerID       string `json:"caller_id,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	AnswerOnBridge bool   `json:"answer_on_bridge,omitempty"`

	// Status callbacks are requested for phone targets only.
	StatusCallbackURL    string   `json:"status_callback_url,omitempty"`
	StatusCallbackEvents []string `json:"status_callback_events,omitempty"`

	// Say fields (Action == ActionSay).
	Message  string `json:"message,omitempty"`
	Language string `json:"language,omitempty"`
}

type Action string

const (
	ActionConnect Action = "connect"
	ActionSay     Action = "say"
)

// DialTimeoutSeconds is how long the provider rings the target before
// giving up on the attempt.
const DialTimeoutSeconds = 20

// DefaultLanguage is used for spoken fallback messages.
const DefaultLanguage = "en-US"

// StatusCallbackEvents are the call progress events pushed back to the
// status endpoint for phone targets.
var StatusCallbackEvents = []string{"initiated", "ringing", "answered", "completed"}
