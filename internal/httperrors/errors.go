// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns executor transport failures into user-friendly
// troubleshooting messages.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Class is the broad cause of a transport failure.
type Class int

const (
	Generic Class = iota
	Timeout
	DNS
	Refused
	TLS
	Server
)

func (c Class) String() string {
	switch c {
	case Timeout:
		return "timeout"
	case DNS:
		return "dns"
	case Refused:
		return "refused"
	case TLS:
		return "tls"
	case Server:
		return "server"
	}
	return "generic"
}

// Classify inspects err, falling back to its text when no typed cause matches.
func Classify(err error) Class {
	switch {
	case err == nil:
		return Generic
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return Refused
	case isSSLError(err):
		return TLS
	case isServerError(err.Error()):
		return Server
	}
	return Generic
}

// Describe builds the message shown for a failure while doing context against endpoint.
func Describe(err error, context, endpoint string) string {
	host := ExtractHostFromURL(endpoint)
	var head string
	var hints []string
	switch Classify(err) {
	case Timeout:
		head = "⏱️  Executor timed out while " + context
		hints = []string{
			"The statement may still be running on the executor",
			"The executor may be under heavy load",
			"A firewall may be dropping the connection",
		}
	case DNS:
		head = "🌐 Cannot resolve executor address while " + context
		hints = []string{
			fmt.Sprintf("Check that %s is spelled correctly", host),
			"Check your DNS settings and VPN connection",
		}
	case Refused:
		head = "🚫 Connection refused while " + context
		hints = []string{
			fmt.Sprintf("Nothing is listening on %s", host),
			"For local development start one with: sqlbridge executor",
			"Check the endpoint port in your configuration",
		}
	case TLS:
		head = "🔒 Secure connection failed while " + context
		hints = []string{
			"Check the executor's certificate",
			"Check your system clock and proxy settings",
		}
	case Server:
		head = "⚠️  Executor error while " + context
		hints = []string{
			"The executor reported an internal error",
			"Check the executor logs; the request is not retried",
		}
	default:
		head = "❌ Cannot reach the executor while " + context
		hints = []string{
			fmt.Sprintf("Check that %s is reachable from this machine", host),
			"Check the endpoint and function name in your configuration",
		}
	}

	var sb strings.Builder
	sb.WriteString(head + "\n\n")
	for _, h := range hints {
		sb.WriteString("  • " + h + "\n")
	}
	return sb.String()
}

// Show prints the troubleshooting message for err and returns err wrapped.
func Show(err error, context, endpoint string) error {
	if err == nil {
		return nil
	}
	pterm.Println(Describe(err, context, endpoint))
	short := err.Error()
	if len(short) > 200 {
		short = short[:200] + "..."
	}
	pterm.Debug.Printf("Technical details: %s\n", short)
	return fmt.Errorf("network error: %w", err)
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError matches the bridge's "executor returned status 5xx" messages
// and common gateway phrases.
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	for _, s := range []string{
		"status 500", "status 502", "status 503", "status 504",
		"internal server error", "bad gateway", "service unavailable", "gateway timeout",
	} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "the executor"
	}
	return u.Host
}
