package form

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotEditing        = errors.New("form is not editable after submission")
	ErrInvalidTransition = errors.New("transition not allowed in current phase")
)

// Controller drives the Editing -> Submitted -> Editing cycle.
type Controller struct {
	store       *Store
	guard       Guard
	transmitter Transmitter
	now         func() time.Time
	newID       func() string
}

// Option customizes a Controller.
type Option func(*Controller)

// WithGuard overrides the default attachment policy.
func WithGuard(g Guard) Option {
	return func(c *Controller) { c.guard = g }
}

// WithClock sets the time source used for Record.SubmittedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDFunc sets the Record ID generator.
func WithIDFunc(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// NewController wires a controller around store. A nil transmitter discards records.
func NewController(store *Store, t Transmitter, opts ...Option) *Controller {
	if store == nil {
		store = NewStore()
	}
	if t == nil {
		t = TransmitterFunc(func(Record) {})
	}
	c := &Controller{
		store:       store,
		guard:       NewGuard(DefaultPolicy()),
		transmitter: t,
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	return c.store.State()
}

// SetField updates one text field while editing.
func (c *Controller) SetField(key FieldKey, value string) error {
	if c.store.state.Phase != Editing {
		return ErrNotEditing
	}
	return c.store.SetField(key, value)
}

// SelectFile runs the attachment guard on f. A rejection is published under
// the image key of the error map right away and returned; the previous
// attachment is left in place. An accepted file clears that error.
// A zero RawFile means the selection was cancelled and changes nothing.
func (c *Controller) SelectFile(f RawFile) error {
	if c.store.state.Phase != Editing {
		return ErrNotEditing
	}
	if f.IsZero() {
		return nil
	}
	a, err := c.guard.Evaluate(f)
	if err != nil {
		c.store.RejectAttachment(RejectionMessage(err))
		return err
	}
	c.store.SetAttachment(a)
	return nil
}

// ClearAttachment removes the attachment and any pending rejection.
func (c *Controller) ClearAttachment() error {
	if c.store.state.Phase != Editing {
		return ErrNotEditing
	}
	c.store.ClearAttachment()
	return nil
}

// Submit validates the form. On failure the errors are published and the
// phase stays Editing. On success the phase becomes Submitted and the record
// is handed to the transmitter without waiting for delivery.
func (c *Controller) Submit() (ErrorMap, error) {
	st := c.store.State()
	if st.Phase != Editing {
		return nil, fmt.Errorf("submit from %s: %w", st.Phase, ErrInvalidTransition)
	}

	errs := Validate(st.Fields)
	if len(errs) > 0 {
		st.Errors = errs
		c.store.replace(st)
		return copyErrors(errs), nil
	}

	rec := c.record(st.Fields)
	st.Phase = Submitted
	st.Errors = ErrorMap{}
	st.Last = &rec
	c.store.replace(st)

	c.transmitter.Transmit(copyRecord(rec))
	return ErrorMap{}, nil
}

// Reset starts a fresh cycle after a submission.
func (c *Controller) Reset() error {
	if c.store.state.Phase != Submitted {
		return fmt.Errorf("reset from %s: %w", c.store.state.Phase, ErrInvalidTransition)
	}
	c.store.Reset()
	return nil
}

func (c *Controller) record(fs FieldSet) Record {
	rec := Record{
		ID:          c.newID(),
		SubmittedAt: c.now().UTC(),
		Name:        fs.Name,
		Surname:     fs.Surname,
		Email:       fs.Email,
		Category:    fs.Category,
		Message:     fs.Message,
	}
	if fs.Attachment != nil {
		a := *fs.Attachment
		rec.Attachment = &a
	}
	return rec
}
