package service

import "github.com/mmcdole/docsift/internal/state"

// NoticeService lets the presentation layer acknowledge notices
type NoticeService struct {
	state *state.Writer
}

// NewNoticeService creates a new notice service
func NewNoticeService(w *state.Writer) *NoticeService {
	return &NoticeService{state: w}
}

// Dismiss acknowledges the oldest pending notice
func (s *NoticeService) Dismiss() {
	s.state.DismissNotice()
}
