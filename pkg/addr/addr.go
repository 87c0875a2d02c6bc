// Package addr parses and validates client address specifications.
//
// A specification is an IPv4 address with an optional CIDR prefix length.
// Bare addresses are normalized to an explicit /32, so two specs are equal
// exactly when their string forms are equal. The written form is preserved:
// 10.0.0.1/24 stays 10.0.0.1/24 and is never rewritten to its network
// address.
package addr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAddress reports a token that is not a valid IPv4 address or CIDR
// range.
var ErrInvalidAddress = errors.New("invalid address")

// Spec is a canonical client address in A.B.C.D/N form.
type Spec string

// Parse validates a single token and returns its canonical spec.
// Accepted forms are ddd.ddd.ddd.ddd and ddd.ddd.ddd.ddd/nn, with each
// octet in 0-255 and the prefix length in 0-32. A missing prefix becomes
// /32. Returns ErrInvalidAddress naming the token otherwise.
func Parse(token string) (Spec, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrInvalidAddress)
	}

	host := token
	prefix := "32"
	if slash := strings.IndexByte(token, '/'); slash >= 0 {
		host = token[:slash]
		prefix = token[slash+1:]
	}

	if !validPrefix(prefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, token)
	}

	octets := strings.Split(host, ".")
	if len(octets) != 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, token)
	}
	for _, octet := range octets {
		if !validOctet(octet) {
			return "", fmt.Errorf("%w: %q", ErrInvalidAddress, token)
		}
	}

	return Spec(host + "/" + prefix), nil
}

// ParseList splits each value on commas and validates every token.
// Empty tokens left behind by stray or trailing commas are skipped. The
// first invalid token aborts the whole batch; no partial result is returned.
func ParseList(values []string) ([]Spec, error) {
	var specs []Spec
	for _, value := range values {
		for _, token := range strings.Split(value, ",") {
			if strings.TrimSpace(token) == "" {
				continue
			}
			spec, err := Parse(token)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

// validOctet reports whether s is a 1-3 digit decimal in 0-255.
func validOctet(s string) bool {
	n, ok := decimal(s, 3)
	return ok && n <= 255
}

// validPrefix reports whether s is a 1-2 digit decimal in 0-32.
func validPrefix(s string) bool {
	n, ok := decimal(s, 2)
	return ok && n <= 32
}

// decimal parses a digits-only string of at most maxLen characters.
// Unlike strconv.Atoi it rejects signs and whitespace outright.
func decimal(s string, maxLen int) (int, bool) {
	if len(s) == 0 || len(s) > maxLen {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
