package form

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func validFields() FieldSet {
	return FieldSet{
		Name:     "Anna",
		Email:    "a@x.com",
		Category: "category1",
		Message:  "This is long enough",
	}
}

func TestValidateEmptyFormReportsEveryField(t *testing.T) {
	errs := Validate(FieldSet{Message: "hi"})

	want := ErrorMap{
		KeyName:     msgIdentityRequired,
		KeySurname:  msgIdentityRequired,
		KeyEmail:    msgEmailRequired,
		KeyCategory: msgCategoryRequired,
		KeyMessage:  msgMessageTooShort,
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateValidFormIsEmpty(t *testing.T) {
	assert.Empty(t, Validate(validFields()))
}

func TestValidateIdentityNeedsOneOfNameOrSurname(t *testing.T) {
	tests := []struct {
		name    string
		first   string
		last    string
		wantErr bool
	}{
		{"both empty", "", "", true},
		{"first only", "Anna", "", false},
		{"last only", "", "Petrova", false},
		{"both", "Anna", "Petrova", false},
		{"whitespace counts as a value", " ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := validFields()
			fs.Name, fs.Surname = tt.first, tt.last
			errs := Validate(fs)
			assert.Equal(t, tt.wantErr, errs.Has(KeyName))
			assert.Equal(t, tt.wantErr, errs.Has(KeySurname))
		})
	}
}

func TestValidateEmailIsPresenceOnly(t *testing.T) {
	for _, email := range []string{"a@x.com", "not-an-email", " "} {
		fs := validFields()
		fs.Email = email
		assert.False(t, Validate(fs).Has(KeyEmail), "email %q", email)
	}

	fs := validFields()
	fs.Email = ""
	assert.Equal(t, msgEmailRequired, Validate(fs)[KeyEmail])
}

func TestValidateCategoryRequired(t *testing.T) {
	fs := validFields()
	fs.Category = ""
	assert.Equal(t, msgCategoryRequired, Validate(fs)[KeyCategory])
}

func TestValidateMessageLengthBoundary(t *testing.T) {
	for n := 0; n <= 12; n++ {
		fs := validFields()
		fs.Message = strings.Repeat("a", n)
		assert.Equal(t, n < MinMessageLength, Validate(fs).Has(KeyMessage), "length %d", n)
	}

	fs := validFields()
	fs.Message = strings.Repeat("x", 10000)
	assert.False(t, Validate(fs).Has(KeyMessage))
}

func TestValidateMessageCountsCharactersNotBytes(t *testing.T) {
	fs := validFields()
	fs.Message = "привет мир"
	assert.Len(t, []rune(fs.Message), 10)
	assert.False(t, Validate(fs).Has(KeyMessage))

	fs.Message = "привет"
	assert.True(t, Validate(fs).Has(KeyMessage))
}

func TestValidateMessageCountsEmojiOnce(t *testing.T) {
	fs := validFields()
	fs.Message = strings.Repeat("🙂", 9)
	assert.True(t, Validate(fs).Has(KeyMessage))

	fs.Message = strings.Repeat("🙂", 10)
	assert.Equal(t, 40, len(fs.Message))
	assert.False(t, Validate(fs).Has(KeyMessage))
}

func TestValidateMergesAttachmentRejection(t *testing.T) {
	fs := validFields()
	fs.AttachmentError = "file must not exceed 2 MB"

	errs := Validate(fs)
	assert.Equal(t, ErrorMap{KeyImage: "file must not exceed 2 MB"}, errs)
}

func TestValidateChecksHandBuiltAttachment(t *testing.T) {
	fs := validFields()
	fs.Attachment = &Attachment{FileName: "a.gif", SizeBytes: 10, MIMEType: "image/gif"}
	assert.Equal(t, "file must be a JPEG or PNG image", Validate(fs)[KeyImage])

	fs.Attachment = &Attachment{FileName: "a.png", SizeBytes: 10, MIMEType: "image/png"}
	assert.Empty(t, Validate(fs))
}

func TestValidateIsRecomputedFromScratch(t *testing.T) {
	fs := FieldSet{}
	first := Validate(fs)
	assert.True(t, first.Has(KeyEmail))

	fs = validFields()
	second := Validate(fs)
	assert.Empty(t, second)
	assert.True(t, first.Has(KeyEmail), "earlier result must not be mutated")
}
