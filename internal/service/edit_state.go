package service

import "errors"

// ConfirmFunc is the presentation layer's answer to "proceed?". The core
// never prompts; a nil ConfirmFunc means the caller already decided.
type ConfirmFunc func(prompt string) bool

func confirmed(confirm ConfirmFunc, prompt string) bool {
	return confirm == nil || confirm(prompt)
}

// EditState tracks the record an edit form is bound to: Idle, or Editing(id).
// A presentation layer keeps one per entity type, so starting a second
// edit simply retargets the form.
type EditState struct {
	id      int64
	editing bool
}

// Editing returns the target id, if any.
func (s EditState) Editing() (int64, bool) {
	return s.id, s.editing
}

// Begin moves to Editing(id), replacing any previous target.
func (s *EditState) Begin(id int64) {
	s.id = id
	s.editing = true
}

// Cancel returns to Idle.
func (s *EditState) Cancel() {
	s.id = 0
	s.editing = false
}

// Submit runs update against the current target. Success, or a target that
// no longer exists, returns the form to Idle; any other failure (validation
// included) leaves it Editing so the user can correct and resubmit.
func (s *EditState) Submit(update func(id int64) error) error {
	if !s.editing {
		return ErrNotEditing
	}
	if err := update(s.id); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.Cancel()
		}
		return err
	}
	s.Cancel()
	return nil
}
