package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/feedback-form/internal/form"
)

// ErrInvalidFeedback is returned when the submitted fields fail validation.
var ErrInvalidFeedback = errors.New("feedback not sent")

type submitFlags struct {
	name     string
	surname  string
	email    string
	category string
	message  string
	image    string
}

// SubmitCmd returns the `feedback submit` command.
func SubmitCmd() *cobra.Command {
	var f submitFlags
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send feedback without opening the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := LoadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			return runSubmit(cmd.Context(), rt, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&f.name, "name", "", "first name")
	cmd.Flags().StringVar(&f.surname, "surname", "", "last name")
	cmd.Flags().StringVar(&f.email, "email", "", "contact email")
	cmd.Flags().StringVar(&f.category, "category", "", "feedback category")
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "feedback text (at least 10 characters)")
	cmd.Flags().StringVar(&f.image, "image", "", "path to a png or jpeg screenshot")
	return cmd
}

func runSubmit(ctx context.Context, rt *Runtime, f submitFlags, out, errOut io.Writer) error {
	if f.category != "" && !slices.Contains(rt.Config.Categories, f.category) {
		return fmt.Errorf("unknown category %q (choose from %s)", f.category, strings.Join(rt.Config.Categories, ", "))
	}

	var rec *form.Record
	ctrl := form.NewController(nil, form.TransmitterFunc(func(r form.Record) {
		rec = &r
	}))

	values := map[form.FieldKey]string{
		form.KeyName:     f.name,
		form.KeySurname:  f.surname,
		form.KeyEmail:    f.email,
		form.KeyCategory: f.category,
		form.KeyMessage:  f.message,
	}
	for _, key := range form.TextKeys {
		if err := ctrl.SetField(key, values[key]); err != nil {
			return err
		}
	}
	if f.image != "" {
		raw, err := form.StatFile(f.image)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		// A rejection is recorded in the form state and reported by Submit.
		_ = ctrl.SelectFile(raw)
	}

	errs, err := ctrl.Submit()
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		printErrors(errOut, errs)
		return fmt.Errorf("%w: %d invalid %s", ErrInvalidFeedback, len(errs), pluralize(len(errs), "field", "fields"))
	}

	ctx, cancel := context.WithTimeout(ctx, rt.Config.Timeout)
	defer cancel()

	if client := rt.Client(); client != nil {
		receipt, err := client.SubmitFeedback(ctx, *rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "feedback %s %s\n", receipt.ID, receipt.Status)
		return nil
	}
	if err := rt.Sender().Send(ctx, *rec); err != nil {
		return err
	}
	fmt.Fprintf(out, "feedback %s written to %s (no api_url configured)\n", rec.ID, rt.Config.LogFile)
	return nil
}

func printErrors(w io.Writer, errs form.ErrorMap) {
	keys := append(slices.Clone(form.TextKeys), form.KeyImage)
	for _, key := range keys {
		if msg, ok := errs[key]; ok {
			fmt.Fprintf(w, "  %s: %s\n", key, msg)
		}
	}
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
