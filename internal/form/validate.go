package form

import "unicode/utf8"

// MinMessageLength is the shortest accepted comment, in characters.
const MinMessageLength = 10

const (
	msgIdentityRequired = "must supply a first or last name"
	msgEmailRequired    = "enter an email address"
	msgCategoryRequired = "select a category"
	msgMessageTooShort  = "comment too short"
)

var defaultGuard = NewGuard(DefaultPolicy())

// Validate computes the full error map for fs. Every rule runs; an empty map
// means fs may be submitted.
func Validate(fs FieldSet) ErrorMap {
	errs := ErrorMap{}

	if fs.Name == "" && fs.Surname == "" {
		errs[KeyName] = msgIdentityRequired
		errs[KeySurname] = msgIdentityRequired
	}
	if fs.Email == "" {
		errs[KeyEmail] = msgEmailRequired
	}
	if fs.Category == "" {
		errs[KeyCategory] = msgCategoryRequired
	}
	// Length is in code points, so an emoji counts once.
	if utf8.RuneCountInString(fs.Message) < MinMessageLength {
		errs[KeyMessage] = msgMessageTooShort
	}

	switch {
	case fs.AttachmentError != "":
		errs[KeyImage] = fs.AttachmentError
	case fs.Attachment != nil:
		if err := defaultGuard.Check(*fs.Attachment); err != nil {
			errs[KeyImage] = RejectionMessage(err)
		}
	}

	return errs
}
