// Package core contains the canonical payment-events domain contracts,
// entities, and error envelopes. Adapters and stores depend on this package;
// core must not depend on transport-specific or provider-specific code.
package core
