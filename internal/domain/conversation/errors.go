package conversation

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a conversation participant")
	ErrSameParticipant      = errors.New("cannot start a conversation with yourself")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingMismatch      = errors.New("participants do not match the booking")
	ErrEmptyMessage         = errors.New("message needs text or attachments")
	ErrRateLimited          = errors.New("too many messages")

	// ErrDuplicate reports that a concurrent writer created or bound the row
	// first; callers re-resolve.
	ErrDuplicate = errors.New("conversation already exists")
)
