package routing

import (
	"regexp"
	"strings"
)

// TargetKind classifies where a call should be connected.
type TargetKind string

const (
	TargetClient      TargetKind = "client"
	TargetSIP         TargetKind = "sip"
	TargetPhone       TargetKind = "phone"
	TargetUnspecified TargetKind = "unspecified"
)

const clientPrefix = "client:"

// phonePattern matches an international number: optional leading +,
// first digit 1-9, then 1-14 further digits.
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// Target is the classified dial destination.
type Target struct {
	Kind    TargetKind `json:"kind"`
	Address string     `json:"address,omitempty"`
}

// Classify resolves a raw destination string into a dial target.
//
// Every input produces a target; TargetUnspecified is the only "no
// destination" signal. Unrecognized strings fall back to a client
// identity on purpose: bare names like "alice" are treated as
// registered clients without requiring the client: prefix. Callers
// should not rely on classification to reject malformed destinations.
func Classify(to string) Target {
	to = strings.TrimSpace(to)
	if to == "" {
		return Target{Kind: TargetUnspecified}
	}
	if strings.HasPrefix(to, clientPrefix) {
		return Target{Kind: TargetClient, Address: strings.TrimPrefix(to, clientPrefix)}
	}
	if strings.HasPrefix(strings.ToLower(to), "sip:") {
		// Keep the full URI; the call-control renderer needs the scheme.
		return Target{Kind: TargetSIP, Address: to}
	}
	if phonePattern.MatchString(to) {
		return Target{Kind: TargetPhone, Address: to}
	}
	return Target{Kind: TargetClient, Address: to}
}
