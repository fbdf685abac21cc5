package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
)

// Transport error codes reported alongside a transport error message.
const (
	CodeNone     = 0
	CodeUnknown  = 1
	CodeCanceled = 2
	CodeTimeout  = 3
	CodeDNS      = 4
	CodeConnect  = 5
	CodeTLS      = 6
)

// ErrorCode classifies a transport-level error into one of the Code constants.
func ErrorCode(err error) int {
	if err == nil {
		return CodeNone
	}

	if errors.Is(err, context.Canceled) {
		return CodeCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CodeDNS
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}

	var (
		recordErr    tls.RecordHeaderError
		verifyErr    *tls.CertificateVerificationError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	if errors.As(err, &recordErr) || errors.As(err, &verifyErr) || errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) || errors.As(err, &invalidErr) {
		return CodeTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return CodeConnect
	}

	return CodeUnknown
}
