package form

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// MaxAttachmentBytes is the largest accepted image size.
const MaxAttachmentBytes = 2 * 1024 * 1024

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedType  = errors.New("unsupported file type")
	defaultAllowedTypes = []string{"image/jpeg", "image/png"}
)

// RawFile is a host-provided file reference. Only metadata is inspected.
type RawFile struct {
	Name     string
	Size     int64
	MIMEType string
}

// IsZero reports whether no file was selected.
func (f RawFile) IsZero() bool {
	return f == RawFile{}
}

// Policy bounds accepted attachments.
type Policy struct {
	MaxBytes     int64
	AllowedTypes []string
}

// DefaultPolicy accepts JPEG and PNG images up to 2 MiB.
func DefaultPolicy() Policy {
	types := make([]string, len(defaultAllowedTypes))
	copy(types, defaultAllowedTypes)
	return Policy{MaxBytes: MaxAttachmentBytes, AllowedTypes: types}
}

// Guard validates candidate files against a Policy.
type Guard struct {
	policy Policy
}

// NewGuard builds a guard for the given policy.
func NewGuard(p Policy) Guard {
	return Guard{policy: p}
}

// Evaluate accepts the file or returns a rejection wrapping ErrFileTooLarge
// or ErrUnsupportedType. Size is checked first.
func (g Guard) Evaluate(f RawFile) (Attachment, error) {
	if err := g.check(f.Name, f.Size, f.MIMEType); err != nil {
		return Attachment{}, err
	}
	return Attachment{FileName: f.Name, SizeBytes: f.Size, MIMEType: f.MIMEType}, nil
}

// Check applies the policy to an existing descriptor.
func (g Guard) Check(a Attachment) error {
	return g.check(a.FileName, a.SizeBytes, a.MIMEType)
}

func (g Guard) check(name string, size int64, mimeType string) error {
	if size < 0 || size > g.policy.MaxBytes {
		return goerr.Wrap(ErrFileTooLarge, "attachment rejected",
			goerr.V("file", name), goerr.V("size", size), goerr.V("limit", g.policy.MaxBytes))
	}
	if !g.allowed(mimeType) {
		return goerr.Wrap(ErrUnsupportedType, "attachment rejected",
			goerr.V("file", name), goerr.V("mime", mimeType))
	}
	return nil
}

func (g Guard) allowed(mimeType string) bool {
	for _, t := range g.policy.AllowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// RejectionMessage converts a guard error into the message shown under "image".
func RejectionMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFileTooLarge):
		return "file must not exceed 2 MB"
	case errors.Is(err, ErrUnsupportedType):
		return "file must be a JPEG or PNG image"
	}
	return "file could not be attached"
}
