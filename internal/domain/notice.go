package domain

// NoticeKind classifies a user-visible message
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a message surfaced to the user. Blocking notices must be
// acknowledged before they disappear; others clear on their own.
type Notice struct {
	Kind     NoticeKind
	Text     string
	Blocking bool
}
