package core

import (
	"context"
	"strings"

	"github.com/goliatone/go-payment-events/naming"
)

// Customer record operations. All per-customer fields correlate by the
// provider customer id except the payment-link cache, which correlates by
// email. Field updates resolve the physical row through the customer's
// email, so they fail until AttachEmail has run for that id.

// EnsureCustomer creates a bare customer row for id unless one already
// exists. Safe to call repeatedly.
func (s *Service) EnsureCustomer(ctx context.Context, id string) error {
	if s == nil || s.records == nil {
		return ErrRecordStoreRequired
	}
	startedAt := s.now()
	err := s.ensureRow(ctx, naming.ColumnCustomerID, id)
	s.observeOperation(ctx, startedAt, "customer.ensure", err, map[string]any{"customer_id": id})
	return s.mapError(err)
}

// EnsureCustomerByEmail creates a bare customer row keyed by email unless
// one already exists.
func (s *Service) EnsureCustomerByEmail(ctx context.Context, email string) error {
	if s == nil || s.records == nil {
		return ErrRecordStoreRequired
	}
	startedAt := s.now()
	err := s.ensureRow(ctx, naming.ColumnEmail, email)
	s.observeOperation(ctx, startedAt, "customer.ensure_by_email", err, map[string]any{"email": email})
	return s.mapError(err)
}

func (s *Service) ensureRow(ctx context.Context, keyColumn naming.Logical, keyValue string) error {
	table := s.names.Resolve(naming.TableCustomers)
	column := s.names.Resolve(keyColumn)

	rows, err := s.records.Find(ctx, table, column, keyValue)
	if err != nil {
		return NewStoreError(err, "find", table)
	}
	if len(rows) > 0 {
		return nil
	}
	if _, err := s.records.Insert(ctx, table, map[string]any{column: keyValue}); err != nil {
		return NewStoreError(err, "insert", table)
	}
	return nil
}

// AttachEmail sets the email on the customer row for id, creating the row
// when it does not exist yet. Existing rows are addressed by the physical
// row identifier returned from the lookup.
func (s *Service) AttachEmail(ctx context.Context, id, email string) error {
	if s == nil || s.records == nil {
		return ErrRecordStoreRequired
	}
	startedAt := s.now()
	err := s.attachEmail(ctx, id, email)
	s.observeOperation(ctx, startedAt, "customer.attach_email", err, map[string]any{
		"customer_id": id,
	})
	return s.mapError(err)
}

func (s *Service) attachEmail(ctx context.Context, id, email string) error {
	table := s.names.Resolve(naming.TableCustomers)
	idColumn := s.names.Resolve(naming.ColumnCustomerID)
	emailColumn := s.names.Resolve(naming.ColumnEmail)

	rows, err := s.records.Find(ctx, table, idColumn, id)
	if err != nil {
		return NewStoreError(err, "find", table)
	}
	if len(rows) == 0 {
		if _, err := s.records.Insert(ctx, table, map[string]any{
			idColumn:    id,
			emailColumn: email,
		}); err != nil {
			return NewStoreError(err, "insert", table)
		}
		return nil
	}
	if err := s.records.Update(ctx, table, rows[0].ID, map[string]any{emailColumn: email}); err != nil {
		return NewStoreError(err, "update", table)
	}
	return nil
}

// CustomerEmail returns the email attached to the customer id.
func (s *Service) CustomerEmail(ctx context.Context, id string) (string, error) {
	return s.customerStringField(ctx, id, naming.ColumnEmail)
}

// CustomerName returns the name recorded for the customer id.
func (s *Service) CustomerName(ctx context.Context, id string) (string, error) {
	return s.customerStringField(ctx, id, naming.ColumnName)
}

// CustomerCountry returns the country recorded for the customer id.
func (s *Service) CustomerCountry(ctx context.Context, id string) (string, error) {
	return s.customerStringField(ctx, id, naming.ColumnCountry)
}

// CustomerReceiptURL returns the receipt URL recorded for the customer id.
func (s *Service) CustomerReceiptURL(ctx context.Context, id string) (string, error) {
	return s.customerStringField(ctx, id, naming.ColumnReceiptURL)
}

// CustomerPaid returns the paid flag for the customer id.
func (s *Service) CustomerPaid(ctx context.Context, id string) (bool, error) {
	if s == nil || s.records == nil {
		return false, ErrRecordStoreRequired
	}
	column := s.names.Resolve(naming.ColumnPaid)
	row, err := s.firstCustomerRow(ctx, id)
	if err != nil {
		return false, s.mapError(err)
	}
	value, ok := row.BoolField(column)
	if !ok {
		return false, s.mapError(s.customerFieldMissing(column, id))
	}
	return value, nil
}

// CustomerEmailSent returns the email_sent flag for the customer id.
func (s *Service) CustomerEmailSent(ctx context.Context, id string) (bool, error) {
	if s == nil || s.records == nil {
		return false, ErrRecordStoreRequired
	}
	column := s.names.Resolve(naming.ColumnEmailSent)
	row, err := s.firstCustomerRow(ctx, id)
	if err != nil {
		return false, s.mapError(err)
	}
	value, ok := row.BoolField(column)
	if !ok {
		return false, s.mapError(s.customerFieldMissing(column, id))
	}
	return value, nil
}

// CustomerAmountTotal returns the major-unit amount recorded for the
// customer id.
func (s *Service) CustomerAmountTotal(ctx context.Context, id string) (float64, error) {
	if s == nil || s.records == nil {
		return 0, ErrRecordStoreRequired
	}
	column := s.names.Resolve(naming.ColumnAmountTotal)
	row, err := s.firstCustomerRow(ctx, id)
	if err != nil {
		return 0, s.mapError(err)
	}
	value, ok := row.FloatField(column)
	if !ok {
		return 0, s.mapError(s.customerFieldMissing(column, id))
	}
	return value, nil
}

// CustomerEndTime returns the subscription end time recorded for the
// customer id, as a unix timestamp.
func (s *Service) CustomerEndTime(ctx context.Context, id string) (int64, error) {
	if s == nil || s.records == nil {
		return 0, ErrRecordStoreRequired
	}
	column := s.names.Resolve(naming.ColumnEndTime)
	row, err := s.firstCustomerRow(ctx, id)
	if err != nil {
		return 0, s.mapError(err)
	}
	value, ok := row.IntField(column)
	if !ok {
		return 0, s.mapError(s.customerFieldMissing(column, id))
	}
	return value, nil
}

func (s *Service) customerStringField(ctx context.Context, id string, logical naming.Logical) (string, error) {
	if s == nil || s.records == nil {
		return "", ErrRecordStoreRequired
	}
	column := s.names.Resolve(logical)
	row, err := s.firstCustomerRow(ctx, id)
	if err != nil {
		return "", s.mapError(err)
	}
	value, ok := row.StringField(column)
	if !ok {
		return "", s.mapError(s.customerFieldMissing(column, id))
	}
	return value, nil
}

// Only the first matched row is considered; multiple matches are not
// disambiguated.
func (s *Service) firstCustomerRow(ctx context.Context, id string) (Row, error) {
	table := s.names.Resolve(naming.TableCustomers)
	idColumn := s.names.Resolve(naming.ColumnCustomerID)

	rows, err := s.records.Find(ctx, table, idColumn, id)
	if err != nil {
		return Row{}, NewStoreError(err, "find", table)
	}
	if len(rows) == 0 {
		return Row{}, NewFieldMissingError(table, idColumn, id)
	}
	return rows[0], nil
}

func (s *Service) customerFieldMissing(column, id string) error {
	return NewFieldMissingError(s.names.Resolve(naming.TableCustomers), column, id)
}

// UpdatePaid records whether the customer's charge settled.
func (s *Service) UpdatePaid(ctx context.Context, id string, paid bool) error {
	return s.updateCustomerField(ctx, id, naming.ColumnPaid, paid)
}

// UpdateName records the customer's name.
func (s *Service) UpdateName(ctx context.Context, id, name string) error {
	return s.updateCustomerField(ctx, id, naming.ColumnName, name)
}

// UpdateAmountTotal records the major-unit charge amount.
func (s *Service) UpdateAmountTotal(ctx context.Context, id string, amount float64) error {
	return s.updateCustomerField(ctx, id, naming.ColumnAmountTotal, amount)
}

// UpdateCountry records the customer's billing country.
func (s *Service) UpdateCountry(ctx context.Context, id, country string) error {
	return s.updateCustomerField(ctx, id, naming.ColumnCountry, country)
}

// UpdateReceiptURL records the provider receipt URL.
func (s *Service) UpdateReceiptURL(ctx context.Context, id, receiptURL string) error {
	return s.updateCustomerField(ctx, id, naming.ColumnReceiptURL, receiptURL)
}

// UpdateEndTime records the subscription end time as a unix timestamp.
func (s *Service) UpdateEndTime(ctx context.Context, id string, endTime int64) error {
	return s.updateCustomerField(ctx, id, naming.ColumnEndTime, endTime)
}

// SetEmailSent records the delivery status for the customer id.
func (s *Service) SetEmailSent(ctx context.Context, id string, sent bool) error {
	return s.updateCustomerField(ctx, id, naming.ColumnEmailSent, sent)
}

// SetEmailSentByEmail records the delivery status on the row matching the
// recipient email directly, without the id indirection.
func (s *Service) SetEmailSentByEmail(ctx context.Context, email string, sent bool) error {
	if s == nil || s.records == nil {
		return ErrRecordStoreRequired
	}
	startedAt := s.now()
	err := s.upsertFieldByEmail(ctx, email, naming.ColumnEmailSent, sent)
	s.observeOperation(ctx, startedAt, "customer.set_email_sent", err, map[string]any{
		"email": email,
		"sent":  sent,
	})
	return s.mapError(err)
}

// updateCustomerField resolves the row through the customer's email first:
// id resolves to email, email resolves to the physical row, then the field
// is upserted. The write fails until an email has been attached for id.
func (s *Service) updateCustomerField(ctx context.Context, id string, logical naming.Logical, value any) error {
	if s == nil || s.records == nil {
		return ErrRecordStoreRequired
	}
	startedAt := s.now()
	err := func() error {
		email, err := s.customerEmailUnmapped(ctx, id)
		if err != nil {
			return err
		}
		return s.upsertFieldByEmail(ctx, email, logical, value)
	}()
	s.observeOperation(ctx, startedAt, "customer.update_"+string(logical), err, map[string]any{
		"customer_id": id,
	})
	return s.mapError(err)
}

func (s *Service) customerEmailUnmapped(ctx context.Context, id string) (string, error) {
	column := s.names.Resolve(naming.ColumnEmail)
	row, err := s.firstCustomerRow(ctx, id)
	if err != nil {
		return "", err
	}
	value, ok := row.StringField(column)
	if !ok || strings.TrimSpace(value) == "" {
		return "", s.customerFieldMissing(column, id)
	}
	return value, nil
}

func (s *Service) upsertFieldByEmail(ctx context.Context, email string, logical naming.Logical, value any) error {
	table := s.names.Resolve(naming.TableCustomers)
	emailColumn := s.names.Resolve(naming.ColumnEmail)
	column := s.names.Resolve(logical)

	rows, err := s.records.Find(ctx, table, emailColumn, email)
	if err != nil {
		return NewStoreError(err, "find", table)
	}
	rowID := ""
	if len(rows) > 0 {
		rowID = rows[0].ID
	}
	fields := map[string]any{column: value}
	if rowID == "" {
		fields[emailColumn] = email
	}
	if _, err := s.records.Upsert(ctx, table, rowID, fields); err != nil {
		return NewStoreError(err, "upsert", table)
	}
	return nil
}

// CachePaymentLink stores a payment link for the email in the cache table.
// Repeated calls insert duplicate rows; readers take the first match.
func (s *Service) CachePaymentLink(ctx context.Context, email, link string) error {
	if s == nil || s.records == nil {
		return ErrRecordStoreRequired
	}
	startedAt := s.now()
	table := s.names.Resolve(naming.TablePaymentLinkCache)
	_, err := s.records.Insert(ctx, table, map[string]any{
		s.names.Resolve(naming.ColumnEmail):       email,
		s.names.Resolve(naming.ColumnPaymentLink): link,
	})
	if err != nil {
		err = NewStoreError(err, "insert", table)
	}
	s.observeOperation(ctx, startedAt, "payment_link.cache", err, map[string]any{"email": email})
	return s.mapError(err)
}

// PaymentLink returns the cached payment link for the email.
func (s *Service) PaymentLink(ctx context.Context, email string) (string, error) {
	if s == nil || s.records == nil {
		return "", ErrRecordStoreRequired
	}
	table := s.names.Resolve(naming.TablePaymentLinkCache)
	emailColumn := s.names.Resolve(naming.ColumnEmail)
	linkColumn := s.names.Resolve(naming.ColumnPaymentLink)

	rows, err := s.records.Find(ctx, table, emailColumn, email)
	if err != nil {
		return "", s.mapError(NewStoreError(err, "find", table))
	}
	if len(rows) == 0 {
		return "", s.mapError(NewFieldMissingError(table, emailColumn, email))
	}
	link, ok := rows[0].StringField(linkColumn)
	if !ok {
		return "", s.mapError(NewFieldMissingError(table, linkColumn, email))
	}
	return link, nil
}

// AttachPaymentLinkFromCache copies the cached payment link onto the
// customer row matching the email.
func (s *Service) AttachPaymentLinkFromCache(ctx context.Context, email string) error {
	if s == nil || s.records == nil {
		return ErrRecordStoreRequired
	}
	startedAt := s.now()
	err := func() error {
		link, err := s.PaymentLink(ctx, email)
		if err != nil {
			return err
		}
		return s.upsertFieldByEmail(ctx, email, naming.ColumnPaymentLink, link)
	}()
	s.observeOperation(ctx, startedAt, "payment_link.attach", err, map[string]any{"email": email})
	return s.mapError(err)
}
