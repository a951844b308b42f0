// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509verify

import (
	"crypto/x509"
	"fmt"
	"net"
	"strings"

	x509trust "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/trust"
)

// matchDomain reports whether name lies within the DNS subtree constraint.
// A leading dot restricts the match to proper subdomains.
func matchDomain(name, constraint string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".")
	constraint = strings.TrimSuffix(strings.ToLower(constraint), ".")

	if constraint == "" {
		return true
	}
	if strings.HasPrefix(constraint, ".") {
		return strings.HasSuffix(name, constraint)
	}
	return name == constraint || strings.HasSuffix(name, "."+constraint)
}

func matchIP(ip net.IP, ranges []*net.IPNet) bool {
	for _, r := range ranges {
		if r.Contains(ip) {
			return true
		}
	}
	return false
}

// checkNameConstraints applies the anchor's permitted and excluded subtrees to
// the certificate's DNS and IP subject alternative names.
func checkNameConstraints(cert *x509.Certificate, anchor *x509trust.TrustAnchor) error {
	if !anchor.HasNameConstraints() {
		return nil
	}

	for _, name := range cert.DNSNames {
		for _, excluded := range anchor.ExcludedDNSDomains {
			if matchDomain(name, excluded) {
				return fmt.Errorf("DNS name %q is excluded by %q", name, excluded)
			}
		}
		if len(anchor.PermittedDNSDomains) == 0 {
			continue
		}
		permitted := false
		for _, p := range anchor.PermittedDNSDomains {
			if matchDomain(name, p) {
				permitted = true
				break
			}
		}
		if !permitted {
			return fmt.Errorf("DNS name %q is outside the permitted subtrees", name)
		}
	}

	for _, ip := range cert.IPAddresses {
		if matchIP(ip, anchor.ExcludedIPRanges) {
			return fmt.Errorf("IP address %s is excluded", ip)
		}
		if len(anchor.PermittedIPRanges) > 0 && !matchIP(ip, anchor.PermittedIPRanges) {
			return fmt.Errorf("IP address %s is outside the permitted ranges", ip)
		}
	}

	return nil
}
