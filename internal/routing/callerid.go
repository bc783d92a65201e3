package routing

import "strings"

// AnonymousCaller is presented when the provider sends no From value.
const AnonymousCaller = "client:anonymous"

// ResolveCallerID chooses the identity presented to the far end.
//
// Resolution runs in two stages:
//  1. Identity-aware fallback: a client: identity is not a dialable
//     number, so prefer the verified number when one is configured.
//  2. Target-aware override: PSTN calls are typically rejected by the
//     provider unless the caller ID is a verified number, so phone
//     targets always present the verified number when available.
//
// When the target is a phone number and no verified number is
// configured, the resolved value is returned with warn=true; the call
// attempt still proceeds.
func ResolveCallerID(from string, kind TargetKind, verifiedNumber string) (callerID string, warn bool) {
	if strings.TrimSpace(from) == "" {
		from = AnonymousCaller
	}

	callerID = from
	if strings.HasPrefix(from, clientPrefix) && verifiedNumber != "" {
		callerID = verifiedNumber
	}

	if kind == TargetPhone {
		if verifiedNumber != "" {
			callerID = verifiedNumber
		} else {
			warn = true
		}
	}
	return callerID, warn
}
