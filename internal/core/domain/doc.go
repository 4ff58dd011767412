// Package domain contains the core business entities for Paymate.
// These types have no dependencies on infrastructure and represent
// the wallet session vocabulary: token records, session status,
// authorization attempts and wallet query responses.
package domain
