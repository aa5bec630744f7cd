package form

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransmitter struct {
	records []Record
}

func (r *recordingTransmitter) Transmit(rec Record) {
	r.records = append(r.records, rec)
}

var fixedTime = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestController(t *testing.T) (*Controller, *recordingTransmitter) {
	t.Helper()
	tx := &recordingTransmitter{}
	c := NewController(NewStore(), tx,
		WithClock(func() time.Time { return fixedTime }),
		WithIDFunc(func() string { return "rec-1" }),
	)
	return c, tx
}

func fill(t *testing.T, c *Controller, fields map[FieldKey]string) {
	t.Helper()
	for k, v := range fields {
		require.NoError(t, c.SetField(k, v))
	}
}

func scenarioBFields() map[FieldKey]string {
	return map[FieldKey]string{
		KeyName:     "Anna",
		KeySurname:  "",
		KeyEmail:    "a@x.com",
		KeyCategory: "category1",
		KeyMessage:  "This is long enough",
	}
}

func TestSubmitInvalidFormStaysEditing(t *testing.T) {
	c, tx := newTestController(t)
	fill(t, c, map[FieldKey]string{KeyMessage: "hi"})

	errs, err := c.Submit()
	require.NoError(t, err)

	for _, k := range []FieldKey{KeyName, KeySurname, KeyEmail, KeyCategory, KeyMessage} {
		assert.True(t, errs.Has(k), "missing error for %s", k)
	}
	st := c.State()
	assert.Equal(t, Editing, st.Phase)
	assert.Equal(t, errs, st.Errors)
	assert.Empty(t, tx.records)
}

func TestSubmitValidFormHandsOffRecord(t *testing.T) {
	c, tx := newTestController(t)
	fill(t, c, scenarioBFields())

	errs, err := c.Submit()
	require.NoError(t, err)
	assert.Empty(t, errs)

	st := c.State()
	assert.Equal(t, Submitted, st.Phase)
	assert.Empty(t, st.Errors)

	want := []Record{{
		ID:          "rec-1",
		SubmittedAt: fixedTime,
		Name:        "Anna",
		Email:       "a@x.com",
		Category:    "category1",
		Message:     "This is long enough",
	}}
	if diff := cmp.Diff(want, tx.records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitWithOversizedAttachmentReportsOnlyImage(t *testing.T) {
	c, tx := newTestController(t)
	fill(t, c, scenarioBFields())

	err := c.SelectFile(RawFile{Name: "big.jpg", Size: 3 * 1024 * 1024, MIMEType: "image/jpeg"})
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Nil(t, c.State().Fields.Attachment)

	errs, err := c.Submit()
	require.NoError(t, err)
	assert.Equal(t, ErrorMap{KeyImage: "file must not exceed 2 MB"}, errs)
	assert.Equal(t, Editing, c.State().Phase)
	assert.Equal(t, "Anna", c.State().Fields.Name)
	assert.Empty(t, tx.records)
}

func TestResetAfterSubmitReturnsToEmptyEditing(t *testing.T) {
	c, _ := newTestController(t)
	fill(t, c, scenarioBFields())
	_, err := c.Submit()
	require.NoError(t, err)

	require.NoError(t, c.Reset())

	st := c.State()
	assert.Equal(t, Editing, st.Phase)
	assert.Equal(t, Empty(), st.Fields)
	assert.Empty(t, st.Errors)
}

func TestResetTwiceMatchesResetOnce(t *testing.T) {
	c, _ := newTestController(t)
	fill(t, c, scenarioBFields())
	_, err := c.Submit()
	require.NoError(t, err)

	require.NoError(t, c.Reset())
	once := c.State()

	err = c.Reset()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, once, c.State())
}

func TestResetNotAllowedWhileEditing(t *testing.T) {
	c, _ := newTestController(t)
	fill(t, c, map[FieldKey]string{KeyName: "Anna"})

	assert.ErrorIs(t, c.Reset(), ErrInvalidTransition)
	assert.Equal(t, "Anna", c.State().Fields.Name)
}

func TestSubmitNotAllowedAfterSubmit(t *testing.T) {
	c, tx := newTestController(t)
	fill(t, c, scenarioBFields())
	_, err := c.Submit()
	require.NoError(t, err)

	_, err = c.Submit()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, tx.records, 1)
}

func TestEditsBlockedAfterSubmit(t *testing.T) {
	c, _ := newTestController(t)
	fill(t, c, scenarioBFields())
	_, err := c.Submit()
	require.NoError(t, err)

	assert.ErrorIs(t, c.SetField(KeyName, "Boris"), ErrNotEditing)
	assert.ErrorIs(t, c.SelectFile(RawFile{Name: "a.png", Size: 1, MIMEType: "image/png"}), ErrNotEditing)
	assert.ErrorIs(t, c.ClearAttachment(), ErrNotEditing)
	assert.Equal(t, "Anna", c.State().Fields.Name)
}

func TestRejectedFileKeepsPreviousAttachment(t *testing.T) {
	c, _ := newTestController(t)

	require.NoError(t, c.SelectFile(RawFile{Name: "ok.png", Size: 100, MIMEType: "image/png"}))
	err := c.SelectFile(RawFile{Name: "anim.gif", Size: 100, MIMEType: "image/gif"})
	require.Error(t, err)

	st := c.State()
	require.NotNil(t, st.Fields.Attachment)
	assert.Equal(t, "ok.png", st.Fields.Attachment.FileName)
	assert.Equal(t, "file must be a JPEG or PNG image", st.Fields.AttachmentError)
}

func TestAcceptedFileClearsRejection(t *testing.T) {
	c, tx := newTestController(t)
	fill(t, c, scenarioBFields())

	require.Error(t, c.SelectFile(RawFile{Name: "big.jpg", Size: 3 * 1024 * 1024, MIMEType: "image/jpeg"}))
	require.NoError(t, c.SelectFile(RawFile{Name: "small.jpg", Size: 1024, MIMEType: "image/jpeg"}))

	errs, err := c.Submit()
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, tx.records, 1)
	require.NotNil(t, tx.records[0].Attachment)
	assert.Equal(t, "small.jpg", tx.records[0].Attachment.FileName)
}

func TestClearAttachmentDropsRejection(t *testing.T) {
	c, _ := newTestController(t)
	require.Error(t, c.SelectFile(RawFile{Name: "a.gif", Size: 1, MIMEType: "image/gif"}))

	require.NoError(t, c.ClearAttachment())
	assert.Equal(t, "", c.State().Fields.AttachmentError)
	assert.False(t, Validate(c.State().Fields).Has(KeyImage))
}

func TestCancelledSelectionChangesNothing(t *testing.T) {
	c, _ := newTestController(t)
	require.NoError(t, c.SelectFile(RawFile{Name: "ok.png", Size: 1, MIMEType: "image/png"}))

	require.NoError(t, c.SelectFile(RawFile{}))
	assert.Equal(t, "ok.png", c.State().Fields.Attachment.FileName)
}

func TestErrorsClearedOnceFormIsFixed(t *testing.T) {
	c, _ := newTestController(t)
	errs, err := c.Submit()
	require.NoError(t, err)
	require.NotEmpty(t, errs)

	fill(t, c, scenarioBFields())
	errs, err = c.Submit()
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Empty(t, c.State().Errors)
}

func TestSetFieldRejectsUnknownKey(t *testing.T) {
	c, _ := newTestController(t)
	err := c.SetField(KeyImage, "x")
	assert.True(t, errors.Is(err, ErrUnknownField))
	err = c.SetField("phone", "x")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestNewControllerDefaults(t *testing.T) {
	c := NewController(nil, nil)
	fill(t, c, scenarioBFields())

	errs, err := c.Submit()
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, Submitted, c.State().Phase)
}

func TestStateIsASnapshot(t *testing.T) {
	c, _ := newTestController(t)
	require.NoError(t, c.SelectFile(RawFile{Name: "ok.png", Size: 1, MIMEType: "image/png"}))
	_, err := c.Submit()
	require.NoError(t, err)

	st := c.State()
	st.Errors[KeyName] = "tampered"
	st.Fields.Attachment.FileName = "tampered.png"

	fresh := c.State()
	assert.Equal(t, msgIdentityRequired, fresh.Errors[KeyName])
	assert.Equal(t, "ok.png", fresh.Fields.Attachment.FileName)
}

func TestRejectedFilePublishesImageErrorImmediately(t *testing.T) {
	c, _ := newTestController(t)

	require.Error(t, c.SelectFile(RawFile{Name: "a.gif", Size: 10, MIMEType: "image/gif"}))
	st := c.State()
	assert.Equal(t, Editing, st.Phase)
	assert.Equal(t, ErrorMap{KeyImage: "file must be a JPEG or PNG image"}, st.Errors)

	require.NoError(t, c.SelectFile(RawFile{Name: "ok.png", Size: 10, MIMEType: "image/png"}))
	assert.False(t, c.State().Errors.Has(KeyImage))

	require.Error(t, c.SelectFile(RawFile{Name: "big.png", Size: 3 * 1024 * 1024, MIMEType: "image/png"}))
	assert.Equal(t, "file must not exceed 2 MB", c.State().Errors[KeyImage])

	require.NoError(t, c.ClearAttachment())
	assert.False(t, c.State().Errors.Has(KeyImage))
}

func TestRejectedFileKeepsOtherErrors(t *testing.T) {
	c, _ := newTestController(t)
	_, err := c.Submit()
	require.NoError(t, err)

	require.Error(t, c.SelectFile(RawFile{Name: "a.gif", Size: 10, MIMEType: "image/gif"}))
	st := c.State()
	assert.True(t, st.Errors.Has(KeyEmail))
	assert.True(t, st.Errors.Has(KeyImage))
}

func TestLastHoldsTransmittedRecord(t *testing.T) {
	c, tx := newTestController(t)
	assert.Nil(t, c.State().Last)

	fill(t, c, scenarioBFields())
	require.NoError(t, c.SelectFile(RawFile{Name: "ok.png", Size: 10, MIMEType: "image/png"}))
	_, err := c.Submit()
	require.NoError(t, err)

	st := c.State()
	require.NotNil(t, st.Last)
	require.Len(t, tx.records, 1)
	if diff := cmp.Diff(tx.records[0], *st.Last); diff != "" {
		t.Errorf("last record mismatch (-sent +state):\n%s", diff)
	}
	assert.Equal(t, "rec-1", st.Last.ID)
	assert.Equal(t, fixedTime, st.Last.SubmittedAt)

	st.Last.Attachment.FileName = "tampered.png"
	assert.Equal(t, "ok.png", c.State().Last.Attachment.FileName)

	require.NoError(t, c.Reset())
	assert.Nil(t, c.State().Last)
}
