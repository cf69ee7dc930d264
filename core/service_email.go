package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

var emailAddressPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// ValidEmailAddress reports whether addr looks like a deliverable address.
func ValidEmailAddress(addr string) bool {
	return emailAddressPattern.MatchString(strings.TrimSpace(addr))
}

// TemplatePlaceholders are the substitution values a receipt template can
// reference.
type TemplatePlaceholders struct {
	FirstName     string
	FullName      string
	Email         string
	PaymentAmount string
	ProductName   string
	PaymentDate   string
}

// FillTemplate substitutes every {{Placeholder}} token in the template body.
// Unreferenced placeholders are ignored; unmatched tokens pass through.
func FillTemplate(body string, values TemplatePlaceholders) string {
	replacer := strings.NewReplacer(
		"{{FirstName}}", values.FirstName,
		"{{FullName}}", values.FullName,
		"{{Email}}", values.Email,
		"{{PaymentAmount}}", values.PaymentAmount,
		"{{ProductName}}", values.ProductName,
		"{{PaymentDate}}", values.PaymentDate,
	)
	return replacer.Replace(body)
}

// SendReceiptEmail assembles and delivers the receipt email for recipient,
// returning the provider message id. The recipient address is validated
// unless the configuration allows dirty addresses.
func (s *Service) SendReceiptEmail(ctx context.Context, recipient string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("core: service is not initialized")
	}
	if s.emailSender == nil {
		return "", s.mapError(ErrEmailNotConfigured)
	}
	if !s.config.Email.AllowDirty && !ValidEmailAddress(recipient) {
		return "", s.mapError(
			goerrors.New("recipient address is invalid", goerrors.CategoryValidation).
				WithTextCode(PaymentsErrorEmailRejected).
				WithMetadata(map[string]any{"recipient": recipient}),
		)
	}

	body, err := s.receiptBody(ctx, recipient)
	if err != nil {
		return "", s.mapError(err)
	}

	startedAt := s.now()
	messageID, err := s.emailSender.Send(ctx, EmailMessage{
		From:    s.config.Email.Sender,
		To:      recipient,
		Subject: s.config.Email.Subject,
		HTML:    body,
	})
	if err != nil {
		err = NewEmailSendError(err, recipient)
	}
	s.observeOperation(ctx, startedAt, "email.send", err, map[string]any{
		"recipient": recipient,
	})
	if err != nil {
		return "", s.mapError(err)
	}
	return messageID, nil
}

func (s *Service) receiptBody(ctx context.Context, recipient string) (string, error) {
	values := TemplatePlaceholders{
		Email:       recipient,
		PaymentDate: s.now().Format("2006-01-02"),
	}
	templateURL := strings.TrimSpace(s.config.Email.TemplateURL)
	if s.templates == nil || templateURL == "" {
		return FillTemplate(defaultReceiptBody, values), nil
	}
	body, err := s.templates.Fetch(ctx, templateURL)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "email template fetch failed").
			WithTextCode(PaymentsErrorEmailSendFailed).
			WithMetadata(map[string]any{"template_url": templateURL})
	}
	return FillTemplate(body, values), nil
}

const defaultReceiptBody = `<html><body>` +
	`<p>Thank you for your payment.</p>` +
	`<p>A receipt for {{Email}} was issued on {{PaymentDate}}.</p>` +
	`</body></html>`
