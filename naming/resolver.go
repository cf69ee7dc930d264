// Package naming resolves logical table and column names to the physical
// identifiers the record store uses. Operators remap names through
// OVERWRITE_* environment variables; unset overrides fall back to the
// defaults below.
package naming

import (
	"os"
	"strings"
)

// Logical identifies a table or column by its stable in-code name.
type Logical string

const (
	TableCustomers        Logical = "customer_table"
	TablePaymentLinkCache Logical = "payment_link_cache_table"
	ColumnCustomerID      Logical = "customer_id"
	ColumnEmail           Logical = "email"
	ColumnPaid            Logical = "paid"
	ColumnEmailSent       Logical = "email_sent"
	ColumnName            Logical = "name"
	ColumnReceiptURL      Logical = "receipt_url"
	ColumnCountry         Logical = "country"
	ColumnAmountTotal     Logical = "amount_total"
	ColumnEndTime         Logical = "end_time"
	ColumnStartTime       Logical = "start_time"
	ColumnPaymentLink     Logical = "payment_link"
)

var defaults = map[Logical]string{
	TableCustomers:        "stripe_customer_data",
	TablePaymentLinkCache: "stripe_plink_cache",
	ColumnCustomerID:      "customer_id",
	ColumnEmail:           "email",
	ColumnPaid:            "paid",
	ColumnEmailSent:       "email_sent",
	ColumnName:            "name",
	ColumnReceiptURL:      "receipt_url",
	ColumnCountry:         "country",
	ColumnAmountTotal:     "amount_total",
	ColumnEndTime:         "end_time",
	ColumnStartTime:       "start_time",
	ColumnPaymentLink:     "payment_link",
}

var overrideVars = map[Logical]string{
	TableCustomers:        "OVERWRITE_STRIPE_CUSTOMER_TABLE_NAME",
	TablePaymentLinkCache: "OVERWRITE_STRIPE_PLINK_CACHE_TABLE_NAME",
	ColumnCustomerID:      "OVERWRITE_STRIPE_CUSTOMER_ID_COLUMN_NAME",
	ColumnEmail:           "OVERWRITE_STRIPE_EMAIL_COLUMN_NAME",
	ColumnPaid:            "OVERWRITE_STRIPE_CUSTOMER_PAID_COLUMN_NAME",
	ColumnEmailSent:       "OVERWRITE_STRIPE_CUSTOMER_EMAIL_SENT_COLUMN_NAME",
	ColumnName:            "OVERWRITE_STRIPE_CUSTOMER_NAME_COLUMN_NAME",
	ColumnReceiptURL:      "OVERWRITE_STRIPE_CUSTOMER_RECEIPT_URL_COLUMN_NAME",
	ColumnCountry:         "OVERWRITE_STRIPE_CUSTOMER_COUNTRY_COLUMN_NAME",
	ColumnAmountTotal:     "OVERWRITE_STRIPE_CUSTOMER_AMOUNT_TOTAL_COLUMN_NAME",
	ColumnEndTime:         "OVERWRITE_STRIPE_CUSTOMER_END_TIME_COLUMN_NAME",
	ColumnStartTime:       "OVERWRITE_STRIPE_CUSTOMER_START_TIME_COLUMN_NAME",
	ColumnPaymentLink:     "OVERWRITE_STRIPE_CUSTOMER_PAYMENT_LINK_COLUMN_NAME",
}

// Resolver maps logical names to physical identifiers. Overrides are
// re-read on every call so operators can remap names on a live process.
type Resolver struct {
	lookup func(string) (string, bool)
}

// NewResolver builds a resolver backed by the process environment.
func NewResolver() *Resolver {
	return &Resolver{lookup: os.LookupEnv}
}

// NewResolverWithLookup builds a resolver with a custom override source.
func NewResolverWithLookup(lookup func(string) (string, bool)) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Resolver{lookup: lookup}
}

// Resolve returns the physical name for a logical one. It never fails:
// unknown logical names resolve to themselves, unset overrides fall back to
// the defaults.
func (r *Resolver) Resolve(name Logical) string {
	if r != nil && r.lookup != nil {
		if envName, ok := overrideVars[name]; ok {
			if value, ok := r.lookup(envName); ok && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
	}
	if value, ok := defaults[name]; ok {
		return value
	}
	return string(name)
}

// Snapshot resolves every known logical name at once, for logging and
// diagnostics.
func (r *Resolver) Snapshot() map[Logical]string {
	out := make(map[Logical]string, len(defaults))
	for name := range defaults {
		out[name] = r.Resolve(name)
	}
	return out
}
