// Package zonetransfer checks whether the authoritative nameservers of
// a domain allow a full zone transfer (AXFR) to any requester.
package zonetransfer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/projectdiscovery/gologger"
)

// DefaultTimeout bounds a single transfer attempt when none is configured.
const DefaultTimeout = 3 * time.Second

// Resolver provides the lookups needed to reach the nameservers.
type Resolver interface {
	Resolve(ctx context.Context, name string, qtype uint16) ([]dns.RR, error)
	Nameservers(ctx context.Context, domain string) ([]string, error)
}

// TransferFunc performs an AXFR of domain against server (host:port).
type TransferFunc func(ctx context.Context, server, domain string, timeout time.Duration) ([]dns.RR, error)

// Record is a single resource record obtained by a transfer.
type Record struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// Attempt is the outcome of a transfer against one nameserver.
type Attempt struct {
	Nameserver string   `json:"nameserver"`
	Success    bool     `json:"success"`
	Records    []Record `json:"records,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Report is the outcome of the transfer checks for a domain.
type Report struct {
	Domain      string    `json:"domain"`
	Nameservers []string  `json:"nameservers"`
	Attempts    []Attempt `json:"attempts"`
	Error       string    `json:"error,omitempty"`
}

// Vulnerable reports whether any nameserver allowed the transfer.
func (r *Report) Vulnerable() bool {
	for _, attempt := range r.Attempts {
		if attempt.Success {
			return true
		}
	}
	return false
}

// Checker attempts zone transfers sequentially.
type Checker struct {
	resolver Resolver
	timeout  time.Duration
	transfer TransferFunc
}

// New creates a new zone transfer checker.
func New(resolver Resolver, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{resolver: resolver, timeout: timeout, transfer: AXFR}
}

// Check lists the nameservers of domain and tries a transfer against
// each of them in turn. Failures are recorded per nameserver.
func (c *Checker) Check(ctx context.Context, domain string) *Report {
	report := &Report{Domain: domain}

	nameservers, err := c.resolver.Nameservers(ctx, domain)
	if err != nil || len(nameservers) == 0 {
		gologger.Verbose().Msgf("Could not retrieve nameservers for %s: %v\n", domain, err)
		report.Error = "no nameservers found"
		return report
	}
	report.Nameservers = nameservers
	gologger.Verbose().Msgf("Found %d nameservers for %s\n", len(nameservers), domain)

	for _, nameserver := range nameservers {
		if ctx.Err() != nil {
			break
		}
		report.Attempts = append(report.Attempts, c.attempt(ctx, nameserver, domain))
	}
	return report
}

func (c *Checker) attempt(ctx context.Context, nameserver, domain string) Attempt {
	attempt := Attempt{Nameserver: nameserver}

	gologger.Verbose().Msgf("Attempting zone transfer of %s from %s\n", domain, nameserver)
	rrs, err := c.transfer(ctx, c.address(ctx, nameserver), domain, c.timeout)
	if err != nil {
		attempt.Error = err.Error()
		return attempt
	}
	if len(rrs) == 0 {
		attempt.Error = "zone transfer returned no records"
		return attempt
	}

	attempt.Success = true
	attempt.Records = make([]Record, 0, len(rrs))
	for _, rr := range rrs {
		attempt.Records = append(attempt.Records, toRecord(rr))
	}
	gologger.Verbose().Msgf("Zone transfer from %s returned %d records\n", nameserver, len(rrs))
	return attempt
}

// address resolves the nameserver through the configured resolver so a
// custom resolver is honoured, falling back to the hostname itself.
func (c *Checker) address(ctx context.Context, nameserver string) string {
	lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	answers, err := c.resolver.Resolve(lookupCtx, nameserver, dns.TypeA)
	if err == nil {
		for _, rr := range answers {
			if a, ok := rr.(*dns.A); ok {
				return net.JoinHostPort(a.A.String(), "53")
			}
		}
	}
	return net.JoinHostPort(nameserver, "53")
}

// AXFR transfers domain from server using miekg/dns.
func AXFR(ctx context.Context, server, domain string, timeout time.Duration) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetAxfr(dns.Fqdn(domain))

	transfer := &dns.Transfer{
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	envelopes, err := transfer.In(msg, server)
	if err != nil {
		return nil, fmt.Errorf("transfer error from %s: %w", server, err)
	}

	var rrs []dns.RR
	for envelope := range envelopes {
		if envelope.Error != nil {
			// drain so the transfer goroutine can exit
			for range envelopes {
			}
			return nil, fmt.Errorf("transfer envelope error from %s: %w", server, envelope.Error)
		}
		rrs = append(rrs, envelope.RR...)
		if ctx.Err() != nil {
			for range envelopes {
			}
			return nil, ctx.Err()
		}
	}
	if len(rrs) == 0 {
		return nil, errors.New("zone transfer refused")
	}
	return rrs, nil
}

func toRecord(rr dns.RR) Record {
	header := rr.Header()
	return Record{
		Name: strings.TrimSuffix(header.Name, "."),
		Type: dns.TypeToString[header.Rrtype],
		Data: strings.TrimSpace(strings.TrimPrefix(rr.String(), header.String())),
	}
}
