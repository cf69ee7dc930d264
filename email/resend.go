// Package email provides the outbound email collaborators: a Resend-backed
// sender and an HTTP template fetcher.
package email

import (
	"context"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/resend/resend-go/v2"

	"github.com/goliatone/go-payment-events/core"
)

// ResendSender delivers messages through the Resend API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender builds a sender authenticated with apiKey.
func NewResendSender(apiKey string) (*ResendSender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, emailError(
			"email: resend api key is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		)
	}
	return &ResendSender{client: resend.NewClient(apiKey)}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg core.EmailMessage) (string, error) {
	if s == nil || s.client == nil {
		return "", emailError(
			"email: resend sender is not initialized",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", emailWrapError(
			err,
			goerrors.CategoryExternal,
			"email: resend delivery failed",
			http.StatusBadGateway,
			map[string]any{"recipient": msg.To},
		)
	}
	return sent.Id, nil
}

var _ core.EmailSender = (*ResendSender)(nil)
