// Package records queries the standard record types of a domain and
// renders every answer as a flat string.
package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hawkbind/hawkbind/pkg/resolver"
	"github.com/miekg/dns"
	"github.com/projectdiscovery/gologger"
	sliceutil "github.com/projectdiscovery/utils/slice"
)

// Supported are the record types the enumerator knows how to query.
var Supported = []string{"A", "AAAA", "MX", "NS", "TXT", "SOA", "CNAME", "PTR"}

// Default are the record types queried when none are requested.
var Default = []string{"A", "AAAA", "MX", "NS", "TXT", "SOA"}

// IsSupported reports whether recordType can be enumerated.
func IsSupported(recordType string) bool {
	return sliceutil.Contains(Supported, strings.ToUpper(recordType))
}

// Set holds the values found for one record type. Error is set when
// the query failed for a reason other than a missing name or record.
type Set struct {
	Type   string   `json:"type"`
	Values []string `json:"values"`
	Error  string   `json:"error,omitempty"`
}

// Enumerator queries record types one after another.
type Enumerator struct {
	resolver resolver.Resolver
	timeout  time.Duration
}

// New creates a record enumerator over resolver. Every query is bounded
// by timeout.
func New(r resolver.Resolver, timeout time.Duration) *Enumerator {
	if timeout <= 0 {
		timeout = resolver.DefaultTimeout
	}
	return &Enumerator{resolver: r, timeout: timeout}
}

// Enumerate queries every record type of domain in the requested order.
func (e *Enumerator) Enumerate(ctx context.Context, domain string, recordTypes []string) []Set {
	if len(recordTypes) == 0 {
		recordTypes = Default
	}

	sets := make([]Set, 0, len(recordTypes))
	var addresses []string
	for _, recordType := range recordTypes {
		if ctx.Err() != nil {
			break
		}
		recordType = strings.ToUpper(strings.TrimSpace(recordType))
		set := Set{Type: recordType, Values: []string{}}

		var values []string
		var err error
		switch recordType {
		case "PTR":
			if addresses == nil {
				addresses, err = e.query(ctx, domain, dns.TypeA)
			}
			if err == nil {
				values = e.reverse(ctx, addresses)
			}
		default:
			qtype, ok := dns.StringToType[recordType]
			if !ok || !IsSupported(recordType) {
				set.Error = "unsupported record type"
				sets = append(sets, set)
				continue
			}
			values, err = e.query(ctx, domain, qtype)
			if qtype == dns.TypeA && err == nil {
				addresses = values
			}
		}

		switch {
		case err != nil && resolver.IsNotFound(err):
			gologger.Verbose().Msgf("No %s records for %s\n", recordType, domain)
		case err != nil:
			gologger.Verbose().Msgf("Could not query %s records for %s: %s\n", recordType, domain, err)
			set.Error = err.Error()
		default:
			set.Values = append(set.Values, values...)
		}
		sets = append(sets, set)
	}
	return sets
}

func (e *Enumerator) query(ctx context.Context, name string, qtype uint16) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	answers, err := e.resolver.Resolve(ctx, name, qtype)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(answers))
	for _, rr := range answers {
		if value, ok := Format(rr); ok {
			values = append(values, value)
		}
	}
	if qtype == dns.TypeSOA && len(values) > 1 {
		values = values[:1]
	}
	return values, nil
}

// reverse performs a PTR lookup for every address. Addresses that do
// not reverse-resolve are skipped.
func (e *Enumerator) reverse(ctx context.Context, addresses []string) []string {
	var values []string
	for _, address := range addresses {
		arpa, err := dns.ReverseAddr(address)
		if err != nil {
			continue
		}
		names, err := e.query(ctx, arpa, dns.TypePTR)
		if err != nil {
			continue
		}
		for _, name := range names {
			values = append(values, fmt.Sprintf("%s -> %s", address, name))
		}
	}
	return values
}

// Format renders the data of a resource record.
func Format(rr dns.RR) (string, bool) {
	switch v := rr.(type) {
	case *dns.A:
		return v.A.String(), true
	case *dns.AAAA:
		return v.AAAA.String(), true
	case *dns.MX:
		return fmt.Sprintf("%s (Priority: %d)", trimDot(v.Mx), v.Preference), true
	case *dns.NS:
		return trimDot(v.Ns), true
	case *dns.CNAME:
		return trimDot(v.Target), true
	case *dns.PTR:
		return trimDot(v.Ptr), true
	case *dns.TXT:
		quoted := make([]string, 0, len(v.Txt))
		for _, txt := range v.Txt {
			quoted = append(quoted, `"`+txt+`"`)
		}
		return strings.Join(quoted, " "), true
	case *dns.SOA:
		return fmt.Sprintf("Primary NS: %s, Hostmaster: %s", trimDot(v.Ns), trimDot(v.Mbox)), true
	}
	return "", false
}

func trimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}
