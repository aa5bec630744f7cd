package api

import (
	"context"
	"fmt"

	"github.com/gravitrone/feedback-form/internal/form"
)

// SubmitFeedback posts one validated record to the collector.
func (c *Client) SubmitFeedback(ctx context.Context, rec form.Record) (*FeedbackReceipt, error) {
	data, err := c.post(ctx, "/api/feedback", rec)
	if err != nil {
		return nil, fmt.Errorf("submit feedback %s: %w", rec.ID, err)
	}
	return decodeOne[FeedbackReceipt](data)
}

// Send delivers rec and discards the receipt, so a Client can back an outbox.
func (c *Client) Send(ctx context.Context, rec form.Record) error {
	_, err := c.SubmitFeedback(ctx, rec)
	return err
}
