package apiclient

// ReauthRequest describes an elevated-privilege challenge. The handler must
// eventually call exactly one of Retry or Cancel; both may be called from any
// goroutine, typically after an interactive prompt resolves.
type ReauthRequest struct {
	// NeedsSudo is set for the password-confirmation privilege code.
	NeedsSudo bool
	// NeedsSuperuser is set for the superuser privilege code.
	NeedsSuperuser bool
	// Retry replays the identical request and forwards its outcome to the
	// original callbacks.
	Retry func()
	// Cancel forwards the original error response to the original error
	// callback.
	Cancel func()
}

// ReauthHandler is the interactive re-authentication flow collaborator.
type ReauthHandler interface {
	Reauthenticate(req ReauthRequest)
}

// ReauthHandlerFunc adapts a function to the ReauthHandler interface.
type ReauthHandlerFunc func(req ReauthRequest)

// Reauthenticate calls f(req).
func (f ReauthHandlerFunc) Reauthenticate(req ReauthRequest) { f(req) }
