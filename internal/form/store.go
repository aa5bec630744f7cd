package form

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned for keys that are not editable text fields.
var ErrUnknownField = errors.New("unknown field")

// SetField returns a copy of fs with exactly one text field replaced.
func SetField(fs FieldSet, key FieldKey, value string) (FieldSet, error) {
	switch key {
	case KeyName:
		fs.Name = value
	case KeySurname:
		fs.Surname = value
	case KeyEmail:
		fs.Email = value
	case KeyCategory:
		fs.Category = value
	case KeyMessage:
		fs.Message = value
	default:
		return fs, fmt.Errorf("set %q: %w", key, ErrUnknownField)
	}
	return fs, nil
}

// WithAttachment stores an accepted attachment and clears any rejection.
func WithAttachment(fs FieldSet, a Attachment) FieldSet {
	fs.Attachment = &a
	fs.AttachmentError = ""
	return fs
}

// WithRejection records a guard rejection. The current attachment is kept.
func WithRejection(fs FieldSet, message string) FieldSet {
	fs.AttachmentError = message
	return fs
}

// WithoutAttachment drops the attachment and any pending rejection.
func WithoutAttachment(fs FieldSet) FieldSet {
	fs.Attachment = nil
	fs.AttachmentError = ""
	return fs
}

// Store holds the current form state. Each operation swaps in a new value.
type Store struct {
	state State
}

// NewStore returns a store holding an empty form in the Editing phase.
func NewStore() *Store {
	return &Store{state: initialState()}
}

func initialState() State {
	return State{Fields: Empty(), Errors: ErrorMap{}, Phase: Editing}
}

// State returns a copy of the held state.
func (s *Store) State() State {
	st := s.state
	st.Errors = copyErrors(s.state.Errors)
	if s.state.Fields.Attachment != nil {
		a := *s.state.Fields.Attachment
		st.Fields.Attachment = &a
	}
	if s.state.Last != nil {
		rec := copyRecord(*s.state.Last)
		st.Last = &rec
	}
	return st
}

// SetField replaces one text field.
func (s *Store) SetField(key FieldKey, value string) error {
	fs, err := SetField(s.state.Fields, key, value)
	if err != nil {
		return err
	}
	s.state.Fields = fs
	return nil
}

// SetAttachment replaces the attachment slot and drops any image error.
func (s *Store) SetAttachment(a Attachment) {
	s.state.Fields = WithAttachment(s.state.Fields, a)
	s.setImageError("")
}

// RejectAttachment records a guard rejection in both the field set and the
// error map. The current attachment is kept.
func (s *Store) RejectAttachment(message string) {
	s.state.Fields = WithRejection(s.state.Fields, message)
	s.setImageError(message)
}

// ClearAttachment drops the attachment and its image error.
func (s *Store) ClearAttachment() {
	s.state.Fields = WithoutAttachment(s.state.Fields)
	s.setImageError("")
}

func (s *Store) setImageError(message string) {
	errs := copyErrors(s.state.Errors)
	if message == "" {
		delete(errs, KeyImage)
	} else {
		errs[KeyImage] = message
	}
	s.state.Errors = errs
}

// Reset returns the store to its initial value.
func (s *Store) Reset() {
	s.state = initialState()
}

func (s *Store) replace(st State) {
	s.state = st
}

func copyRecord(rec Record) Record {
	if rec.Attachment != nil {
		a := *rec.Attachment
		rec.Attachment = &a
	}
	return rec
}

func copyErrors(in ErrorMap) ErrorMap {
	out := make(ErrorMap, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
