// Package errors renders API failures as JSON envelopes or RFC 7807
// problem documents and recovers handler panics.
package errors
