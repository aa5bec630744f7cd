package outbox

import (
	"context"

	"go.uber.org/zap"

	"github.com/gravitrone/feedback-form/internal/form"
)

// LogSender records deliveries in the log instead of sending them anywhere.
// It stands in for a collector when none is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender returns a sender that writes each record to logger.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, rec form.Record) error {
	fields := []zap.Field{
		zap.String("id", rec.ID),
		zap.Time("submitted_at", rec.SubmittedAt),
		zap.String("name", rec.Name),
		zap.String("surname", rec.Surname),
		zap.String("email", rec.Email),
		zap.String("category", rec.Category),
		zap.Int("message_chars", len([]rune(rec.Message))),
	}
	if rec.Attachment != nil {
		fields = append(fields,
			zap.String("attachment", rec.Attachment.FileName),
			zap.Int64("attachment_bytes", rec.Attachment.SizeBytes),
			zap.String("attachment_type", rec.Attachment.MIMEType),
		)
	}
	s.logger.Info("feedback submitted", fields...)
	return nil
}
