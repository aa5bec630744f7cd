package form

import "time"

// FieldKey names an editable field or an error slot.
type FieldKey string

const (
	KeyName     FieldKey = "name"
	KeySurname  FieldKey = "surname"
	KeyEmail    FieldKey = "email"
	KeyCategory FieldKey = "category"
	KeyMessage  FieldKey = "message"
	KeyImage    FieldKey = "image"
)

// TextKeys lists the text fields in display order.
var TextKeys = []FieldKey{KeyName, KeySurname, KeyEmail, KeyCategory, KeyMessage}

// Attachment describes an accepted image file. Only the Guard builds one.
type Attachment struct {
	FileName  string `json:"file_name"`
	SizeBytes int64  `json:"size_bytes"`
	MIMEType  string `json:"mime_type"`
}

// FieldSet is the editable record. Values are stored exactly as typed.
type FieldSet struct {
	Name       string
	Surname    string
	Email      string
	Category   string
	Message    string
	Attachment *Attachment

	// AttachmentError holds the latest guard rejection, if any.
	AttachmentError string
}

// Empty returns the initial FieldSet.
func Empty() FieldSet {
	return FieldSet{}
}

// Value returns the text stored under key.
func (fs FieldSet) Value(key FieldKey) string {
	switch key {
	case KeyName:
		return fs.Name
	case KeySurname:
		return fs.Surname
	case KeyEmail:
		return fs.Email
	case KeyCategory:
		return fs.Category
	case KeyMessage:
		return fs.Message
	case KeyImage:
		if fs.Attachment != nil {
			return fs.Attachment.FileName
		}
	}
	return ""
}

// ErrorMap maps a field key to a human-readable message. Absent keys are valid.
type ErrorMap map[FieldKey]string

// Has reports whether key carries an error.
func (e ErrorMap) Has(key FieldKey) bool {
	_, ok := e[key]
	return ok
}

// Phase is the submission state.
type Phase int

const (
	Editing Phase = iota
	Submitted
)

func (p Phase) String() string {
	switch p {
	case Editing:
		return "editing"
	case Submitted:
		return "submitted"
	}
	return "unknown"
}

// State is the full snapshot consumed by the rendering layer.
type State struct {
	Fields FieldSet
	Errors ErrorMap
	Phase  Phase

	// Last is the record handed off by the latest submit. Reset clears it.
	Last *Record
}

// Record is the validated payload handed to the transmission layer.
type Record struct {
	ID          string      `json:"id"`
	SubmittedAt time.Time   `json:"submitted_at"`
	Name        string      `json:"name"`
	Surname     string      `json:"surname"`
	Email       string      `json:"email"`
	Category    string      `json:"category"`
	Message     string      `json:"message"`
	Attachment  *Attachment `json:"attachment,omitempty"`
}

// Transmitter receives validated records. Delivery is its own concern.
type Transmitter interface {
	Transmit(rec Record)
}

// TransmitterFunc adapts a function to Transmitter.
type TransmitterFunc func(rec Record)

func (f TransmitterFunc) Transmit(rec Record) { f(rec) }
