package message

import "github.com/google/uuid"

type ErrMsg struct{ Err error }

func (e ErrMsg) Error() string { return e.Err.Error() }

// FrameMsg drives polish and animation. Frames are only scheduled while something is pending.
type FrameMsg struct{}

// ItemReadyMsg completes the asynchronous creation of the visual for record ID. Token
// identifies the request; a cancelled request's token no longer matches.
type ItemReadyMsg struct {
	ID    uuid.UUID
	Token int
}
