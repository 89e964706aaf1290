package domain

import "context"

// EmailAction tags one auth-lifecycle email flow.
type EmailAction string

const (
	ActionSignup         EmailAction = "signup"
	ActionInvite         EmailAction = "invite"
	ActionRecovery       EmailAction = "recovery"
	ActionMagicLink      EmailAction = "magiclink"
	ActionReauthenticate EmailAction = "reauthenticate"
	ActionEmailChange    EmailAction = "email_change"
)

func ValidEmailAction(a EmailAction) bool {
	switch a {
	case ActionSignup, ActionInvite, ActionRecovery, ActionMagicLink,
		ActionReauthenticate, ActionEmailChange:
		return true
	}
	return false
}

// LinkType maps the portal action onto the minted action-link kind
// (reauthenticate rides on a magic link).
func (a EmailAction) LinkType() string {
	if a == ActionReauthenticate {
		return string(ActionMagicLink)
	}
	return string(a)
}

// Message is one rendered transactional email with HTML and plain-text bodies.
type Message struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer dispatches through the transactional mail provider.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}
