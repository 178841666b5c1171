package domain

import "errors"

// Team errors
var (
	ErrTeamExists         = errors.New("user already owns a team")
	ErrTeamNotFound       = errors.New("team not found")
	ErrNotTeamMember      = errors.New("user is not a member of the team")
	ErrNotTeamAdmin       = errors.New("only team administrators can perform this action")
	ErrInvitePending      = errors.New("email already has a pending invitation for this team")
	ErrAlreadyMember      = errors.New("email is already a member of the team")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationInvalid  = errors.New("invitation is not pending")
	ErrInvitationExpired  = errors.New("invitation expired")
)
