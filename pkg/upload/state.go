package upload

// State is the decoder position within the request body.
type State uint8

const (
	// StateAwaitingMode is the state before the first chunk arrives.
	StateAwaitingMode State = iota
	// StateAwaitingBoundary skips the multipart preamble up to the first delimiter.
	StateAwaitingBoundary
	// StateBetweenParts follows a delimiter (or a finished part); no part is open.
	StateBetweenParts
	// StateInPartHeader accumulates a part header block.
	StateInPartHeader
	// StateInPartBody forwards body bytes to the open part.
	StateInPartBody
	// StateDone means the body is complete; further bytes are ignored.
	StateDone
	// StateAborted means the request was torn down or hit a fatal error.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateAwaitingMode:
		return "awaiting_mode"
	case StateAwaitingBoundary:
		return "awaiting_boundary"
	case StateBetweenParts:
		return "between_parts"
	case StateInPartHeader:
		return "in_part_header"
	case StateInPartBody:
		return "in_part_body"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Mode is the body decoding mode, resolved once from the Content-Type header.
type Mode uint8

const (
	ModeUnknown Mode = iota
	ModeMultipart
	ModeURLEncoded
	ModeRaw
)

func (m Mode) String() string {
	switch m {
	case ModeMultipart:
		return "multipart"
	case ModeURLEncoded:
		return "urlencoded"
	case ModeRaw:
		return "raw"
	default:
		return "unknown"
	}
}
