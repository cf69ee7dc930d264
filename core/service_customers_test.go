package core

import (
	"context"
	"errors"
	"testing"
)

func TestEnsureCustomerIsIdempotent(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)

	if err := svc.EnsureCustomer(context.Background(), "cus_1"); err != nil {
		t.Fatalf("EnsureCustomer() error = %v", err)
	}
	if err := svc.EnsureCustomer(context.Background(), "cus_1"); err != nil {
		t.Fatalf("EnsureCustomer() second call error = %v", err)
	}

	if got := len(store.rows("stripe_customer_data")); got != 1 {
		t.Fatalf("customer rows = %d, want 1", got)
	}
	if store.insertCalls != 1 {
		t.Fatalf("insert calls = %d, want 1", store.insertCalls)
	}
}

func TestEnsureCustomerByEmail(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)

	if err := svc.EnsureCustomerByEmail(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("EnsureCustomerByEmail() error = %v", err)
	}
	if err := svc.EnsureCustomerByEmail(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("EnsureCustomerByEmail() second call error = %v", err)
	}

	if got := len(store.rows("stripe_customer_data")); got != 1 {
		t.Fatalf("customer rows = %d, want 1", got)
	}
}

func TestAttachEmailInsertsWhenAbsent(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)

	if err := svc.AttachEmail(context.Background(), "cus_1", "a@b.com"); err != nil {
		t.Fatalf("AttachEmail() error = %v", err)
	}

	if got := store.field("stripe_customer_data", "customer_id", "cus_1", "email"); got != "a@b.com" {
		t.Fatalf("email = %v, want a@b.com", got)
	}
}

func TestAttachEmailUpdatesExistingRow(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)

	if err := svc.EnsureCustomer(context.Background(), "cus_1"); err != nil {
		t.Fatalf("EnsureCustomer() error = %v", err)
	}
	if err := svc.AttachEmail(context.Background(), "cus_1", "a@b.com"); err != nil {
		t.Fatalf("AttachEmail() error = %v", err)
	}
	if err := svc.AttachEmail(context.Background(), "cus_1", "new@b.com"); err != nil {
		t.Fatalf("AttachEmail() overwrite error = %v", err)
	}

	if got := len(store.rows("stripe_customer_data")); got != 1 {
		t.Fatalf("customer rows = %d, want 1", got)
	}
	if got := store.field("stripe_customer_data", "customer_id", "cus_1", "email"); got != "new@b.com" {
		t.Fatalf("email = %v, want new@b.com", got)
	}
}

func TestUpdateFailsBeforeEmailAttached(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)

	if err := svc.EnsureCustomer(context.Background(), "cus_1"); err != nil {
		t.Fatalf("EnsureCustomer() error = %v", err)
	}

	err := svc.UpdatePaid(context.Background(), "cus_1", true)
	if err == nil {
		t.Fatal("UpdatePaid() error = nil, want field-missing failure")
	}
	if !IsFieldMissing(err) {
		t.Fatalf("UpdatePaid() error = %v, want field-missing code", err)
	}
}

func TestUpdateWritesThroughEmailIndirection(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	if err := svc.AttachEmail(ctx, "cus_1", "a@b.com"); err != nil {
		t.Fatalf("AttachEmail() error = %v", err)
	}
	if err := svc.UpdatePaid(ctx, "cus_1", true); err != nil {
		t.Fatalf("UpdatePaid() error = %v", err)
	}
	if err := svc.UpdateCountry(ctx, "cus_1", "NL"); err != nil {
		t.Fatalf("UpdateCountry() error = %v", err)
	}
	if err := svc.UpdateEndTime(ctx, "cus_1", 1735689600); err != nil {
		t.Fatalf("UpdateEndTime() error = %v", err)
	}

	if got := store.field("stripe_customer_data", "customer_id", "cus_1", "paid"); got != true {
		t.Fatalf("paid = %v, want true", got)
	}
	if got := store.field("stripe_customer_data", "customer_id", "cus_1", "country"); got != "NL" {
		t.Fatalf("country = %v, want NL", got)
	}
	if got := len(store.rows("stripe_customer_data")); got != 1 {
		t.Fatalf("customer rows = %d, want 1", got)
	}
}

func TestCustomerGetters(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	if err := svc.AttachEmail(ctx, "cus_1", "a@b.com"); err != nil {
		t.Fatalf("AttachEmail() error = %v", err)
	}
	if err := svc.UpdateName(ctx, "cus_1", "A B"); err != nil {
		t.Fatalf("UpdateName() error = %v", err)
	}
	if err := svc.UpdateAmountTotal(ctx, "cus_1", 25.0); err != nil {
		t.Fatalf("UpdateAmountTotal() error = %v", err)
	}
	if err := svc.UpdatePaid(ctx, "cus_1", true); err != nil {
		t.Fatalf("UpdatePaid() error = %v", err)
	}

	if email, err := svc.CustomerEmail(ctx, "cus_1"); err != nil || email != "a@b.com" {
		t.Fatalf("CustomerEmail() = %q, %v", email, err)
	}
	if name, err := svc.CustomerName(ctx, "cus_1"); err != nil || name != "A B" {
		t.Fatalf("CustomerName() = %q, %v", name, err)
	}
	if amount, err := svc.CustomerAmountTotal(ctx, "cus_1"); err != nil || amount != 25.0 {
		t.Fatalf("CustomerAmountTotal() = %v, %v", amount, err)
	}
	if paid, err := svc.CustomerPaid(ctx, "cus_1"); err != nil || !paid {
		t.Fatalf("CustomerPaid() = %v, %v", paid, err)
	}
}

func TestGetterFieldMissingOnUnknownCustomer(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)

	_, err := svc.CustomerEmail(context.Background(), "ghost")
	if err == nil || !IsFieldMissing(err) {
		t.Fatalf("CustomerEmail() error = %v, want field-missing code", err)
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	store := newMemoryRecordStore()
	store.failFind = errors.New("boom")
	svc := newTestService(t, store)

	err := svc.EnsureCustomer(context.Background(), "cus_1")
	if err == nil || !IsStoreFailure(err) {
		t.Fatalf("EnsureCustomer() error = %v, want store-failure code", err)
	}
}

func TestCachePaymentLinkAllowsDuplicates(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	if err := svc.CachePaymentLink(ctx, "a@b.com", "plink_1"); err != nil {
		t.Fatalf("CachePaymentLink() error = %v", err)
	}
	if err := svc.CachePaymentLink(ctx, "a@b.com", "plink_1"); err != nil {
		t.Fatalf("CachePaymentLink() second call error = %v", err)
	}

	if got := len(store.rows("stripe_plink_cache")); got != 2 {
		t.Fatalf("cache rows = %d, want 2 duplicates", got)
	}

	link, err := svc.PaymentLink(ctx, "a@b.com")
	if err != nil || link != "plink_1" {
		t.Fatalf("PaymentLink() = %q, %v", link, err)
	}
}

func TestPaymentLinkMissing(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)

	_, err := svc.PaymentLink(context.Background(), "nobody@b.com")
	if err == nil || !IsFieldMissing(err) {
		t.Fatalf("PaymentLink() error = %v, want field-missing code", err)
	}
}

func TestAttachPaymentLinkFromCache(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	if err := svc.AttachEmail(ctx, "cus_1", "a@b.com"); err != nil {
		t.Fatalf("AttachEmail() error = %v", err)
	}
	if err := svc.CachePaymentLink(ctx, "a@b.com", "plink_1"); err != nil {
		t.Fatalf("CachePaymentLink() error = %v", err)
	}
	if err := svc.AttachPaymentLinkFromCache(ctx, "a@b.com"); err != nil {
		t.Fatalf("AttachPaymentLinkFromCache() error = %v", err)
	}

	if got := store.field("stripe_customer_data", "customer_id", "cus_1", "payment_link"); got != "plink_1" {
		t.Fatalf("payment_link = %v, want plink_1", got)
	}
}

func TestSetEmailSentByEmailCreatesRowWhenAbsent(t *testing.T) {
	store := newMemoryRecordStore()
	svc := newTestService(t, store)

	if err := svc.SetEmailSentByEmail(context.Background(), "a@b.com", true); err != nil {
		t.Fatalf("SetEmailSentByEmail() error = %v", err)
	}

	if got := store.field("stripe_customer_data", "email", "a@b.com", "email_sent"); got != true {
		t.Fatalf("email_sent = %v, want true", got)
	}
}

func TestNamingOverridesFlowThroughOperations(t *testing.T) {
	store := newMemoryRecordStore()
	resolver := resolverWithOverrides(map[string]string{
		"OVERWRITE_STRIPE_CUSTOMER_TABLE_NAME": "customers_v2",
		"OVERWRITE_STRIPE_EMAIL_COLUMN_NAME":   "mail",
	})
	svc := newTestService(t, store, WithNamingResolver(resolver))

	if err := svc.AttachEmail(context.Background(), "cus_1", "a@b.com"); err != nil {
		t.Fatalf("AttachEmail() error = %v", err)
	}

	if got := store.field("customers_v2", "customer_id", "cus_1", "mail"); got != "a@b.com" {
		t.Fatalf("mail = %v, want a@b.com", got)
	}
	if got := len(store.rows("stripe_customer_data")); got != 0 {
		t.Fatalf("default table rows = %d, want 0", got)
	}
}
