// Package mail renders and dispatches the auth-lifecycle emails.
package mail

import (
	"fmt"

	"github.com/wsustone/L2L-United/internal/domain"
)

const supportAddr = "support@l2lunited.com"

// BuildAuthEmail renders the fixed template for one auth-lifecycle action.
// Each action has an HTML and a plain-text variant and decides its own
// recipient (email_change goes to the new address).
func BuildAuthEmail(action domain.EmailAction, email, newEmail, link string) (domain.Message, error) {
	switch action {
	case domain.ActionSignup, domain.ActionInvite:
		html := fmt.Sprintf(`
        <h2>Finish setting up your account</h2>
        <p>Hi %[1]s,</p>
        <p>Click the link below to confirm your email address and activate your L2L United portal account.</p>
        <p><a href="%[2]s">Activate your account</a></p>
        <p>The link is valid for 60 minutes and can be used once. If you didn't request access, you can safely ignore this message.</p>
        <p>Need assistance? Email <a href="mailto:%[3]s">%[3]s</a>.</p>
        <p>— The L2L United Team</p>
      `, email, link, supportAddr)
		text := fmt.Sprintf("Hi %s,\n\nConfirm your L2L United portal account: %s\n\nThe link is valid for 60 minutes and can be used once. If you didn't request access, ignore this message.\n\nNeed help? %s\n\n— The L2L United Team", email, link, supportAddr)
		return domain.Message{
			To:       email,
			ReplyTo:  supportAddr,
			Subject:  "Complete your L2L United portal registration",
			HTMLBody: html,
			TextBody: text,
		}, nil

	case domain.ActionRecovery:
		html := fmt.Sprintf(`
        <h2>Reset your L2L United password</h2>
        <p>Hi %[1]s,</p>
        <p>We received a request to reset the password for your L2L United portal account.</p>
        <p><a href="%[2]s">Reset your password</a></p>
        <p>The link is valid for 60 minutes and can be used once. If you didn't make this request, you can safely ignore this message.</p>
        <p>Questions? Email <a href="mailto:%[3]s">%[3]s</a>.</p>
        <p>— The L2L United Team</p>
      `, email, link, supportAddr)
		text := fmt.Sprintf("Hi %s,\n\nReset your L2L United portal password: %s\n\nThe link is valid for 60 minutes and can be used once. If you didn't make this request, ignore this message.\n\nNeed help? %s\n\n— The L2L United Team", email, link, supportAddr)
		return domain.Message{
			To:       email,
			ReplyTo:  supportAddr,
			Subject:  "Reset your L2L United password",
			HTMLBody: html,
			TextBody: text,
		}, nil

	case domain.ActionMagicLink, domain.ActionReauthenticate:
		html := fmt.Sprintf(`
        <h2>Confirm it's you</h2>
        <p>Hi %[1]s,</p>
        <p>Use the link below to continue into the L2L United portal.</p>
        <p><a href="%[2]s">Continue to the portal</a></p>
        <p>The link is valid for 60 minutes and can be used once. If you didn't initiate this request, you can ignore this email.</p>
        <p>Need assistance? Email <a href="mailto:%[3]s">%[3]s</a>.</p>
        <p>— The L2L United Team</p>
      `, email, link, supportAddr)
		text := fmt.Sprintf("Hi %s,\n\nContinue to the L2L United portal: %s\n\nThe link is valid for 60 minutes and can be used once. If you didn't initiate this request, ignore this email.\n\nNeed help? %s\n\n— The L2L United Team", email, link, supportAddr)
		return domain.Message{
			To:       email,
			ReplyTo:  supportAddr,
			Subject:  "L2L United portal sign-in link",
			HTMLBody: html,
			TextBody: text,
		}, nil

	case domain.ActionEmailChange:
		target := newEmail
		if target == "" {
			target = email
		}
		html := fmt.Sprintf(`
        <h2>Confirm your new email</h2>
        <p>We received a request to change the email for your L2L United portal account.</p>
        <p>Current email: %[1]s</p>
        <p>New email: %[2]s</p>
        <p><a href="%[3]s">Confirm new email address</a></p>
        <p>If you didn't request this change, contact <a href="mailto:%[4]s">%[4]s</a>.</p>
        <p>— The L2L United Team</p>
      `, email, target, link, supportAddr)
		text := fmt.Sprintf("Confirm your new L2L United portal email:\nCurrent email: %s\nNew email: %s\nLink: %s\n\nIf you didn't request this change, contact %s.\n\n— The L2L United Team", email, target, link, supportAddr)
		return domain.Message{
			To:       target,
			ReplyTo:  supportAddr,
			Subject:  "Confirm your updated L2L United email",
			HTMLBody: html,
			TextBody: text,
		}, nil

	default:
		return domain.Message{}, domain.Invalid("Unsupported auth email action: %s", action)
	}
}
