package records

import (
	"context"
	"errors"
	"testing"

	"github.com/hawkbind/hawkbind/pkg/resolver"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

type zone map[string][]string

// fakeResolver serves answers from zone, keyed by "name TYPE".
type fakeResolver struct {
	zone    zone
	failing map[string]error
	queries []string
}

func (f *fakeResolver) Resolve(_ context.Context, name string, qtype uint16) ([]dns.RR, error) {
	key := dns.Fqdn(name) + " " + dns.TypeToString[qtype]
	f.queries = append(f.queries, key)
	if err, ok := f.failing[key]; ok {
		return nil, err
	}
	lines, ok := f.zone[key]
	if !ok {
		return nil, &resolver.RcodeError{Name: name, Type: qtype, Rcode: dns.RcodeNameError}
	}
	var rrs []dns.RR
	for _, line := range lines {
		rr, err := dns.NewRR(line)
		if err != nil {
			return nil, err
		}
		rrs = append(rrs, rr)
	}
	return rrs, nil
}

func (f *fakeResolver) Nameservers(context.Context, string) ([]string, error) {
	return nil, resolver.ErrNoNameservers
}

func exampleZone() zone {
	return zone{
		"example.com. A":    {"example.com. 300 IN A 93.184.216.34"},
		"example.com. AAAA": {"example.com. 300 IN AAAA 2606:2800:220:1:248:1893:25c8:1946"},
		"example.com. MX": {
			"example.com. 300 IN MX 10 mail.example.com.",
			"example.com. 300 IN MX 20 backup.example.com.",
		},
		"example.com. NS":    {"example.com. 300 IN NS a.iana-servers.net.", "example.com. 300 IN NS b.iana-servers.net."},
		"example.com. TXT":   {`example.com. 300 IN TXT "v=spf1 -all"`, `example.com. 300 IN TXT "part one" "part two"`},
		"example.com. SOA":   {"example.com. 300 IN SOA ns.icann.org. noc.dns.icann.org. 2024 7200 3600 1209600 3600"},
		"example.com. CNAME": {"example.com. 300 IN CNAME edge.example.net."},
		"34.216.184.93.in-addr.arpa. PTR": {
			"34.216.184.93.in-addr.arpa. 300 IN PTR www.example.com.",
		},
	}
}

func TestEnumerateAllTypes(t *testing.T) {
	enumerator := New(&fakeResolver{zone: exampleZone()}, 0)

	sets := enumerator.Enumerate(context.Background(), "example.com", Supported)
	require.Equal(t, []Set{
		{Type: "A", Values: []string{"93.184.216.34"}},
		{Type: "AAAA", Values: []string{"2606:2800:220:1:248:1893:25c8:1946"}},
		{Type: "MX", Values: []string{"mail.example.com (Priority: 10)", "backup.example.com (Priority: 20)"}},
		{Type: "NS", Values: []string{"a.iana-servers.net", "b.iana-servers.net"}},
		{Type: "TXT", Values: []string{`"v=spf1 -all"`, `"part one" "part two"`}},
		{Type: "SOA", Values: []string{"Primary NS: ns.icann.org, Hostmaster: noc.dns.icann.org"}},
		{Type: "CNAME", Values: []string{"edge.example.net"}},
		{Type: "PTR", Values: []string{"93.184.216.34 -> www.example.com"}},
	}, sets)
}

func TestEnumerateDefaultTypes(t *testing.T) {
	fake := &fakeResolver{zone: exampleZone()}
	sets := New(fake, 0).Enumerate(context.Background(), "example.com", nil)

	types := make([]string, 0, len(sets))
	for _, set := range sets {
		types = append(types, set.Type)
	}
	require.Equal(t, Default, types)
}

func TestEnumeratePTRQueriesAddressesWhenMissing(t *testing.T) {
	fake := &fakeResolver{zone: exampleZone()}
	sets := New(fake, 0).Enumerate(context.Background(), "example.com", []string{"ptr"})

	require.Equal(t, []Set{{Type: "PTR", Values: []string{"93.184.216.34 -> www.example.com"}}}, sets)
	require.Equal(t, []string{"example.com. A", "34.216.184.93.in-addr.arpa. PTR"}, fake.queries)
}

func TestEnumerateFailuresAreRecordedPerType(t *testing.T) {
	fake := &fakeResolver{
		zone:    exampleZone(),
		failing: map[string]error{"example.com. MX": errors.New("i/o timeout")},
	}
	sets := New(fake, 0).Enumerate(context.Background(), "example.com", []string{"MX", "CNAME", "SRV", "A"})

	require.Len(t, sets, 4)
	require.Equal(t, Set{Type: "MX", Values: []string{}, Error: "i/o timeout"}, sets[0])
	require.Equal(t, []string{"edge.example.net"}, sets[1].Values)
	require.Equal(t, "unsupported record type", sets[2].Error)
	require.Equal(t, []string{"93.184.216.34"}, sets[3].Values)
}

func TestEnumerateMissingNameIsEmpty(t *testing.T) {
	sets := New(&fakeResolver{zone: zone{}}, 0).Enumerate(context.Background(), "missing.example", []string{"A", "PTR"})
	require.Equal(t, []Set{
		{Type: "A", Values: []string{}},
		{Type: "PTR", Values: []string{}},
	}, sets)
}

func TestIsSupported(t *testing.T) {
	require.True(t, IsSupported("cname"))
	require.True(t, IsSupported("PTR"))
	require.False(t, IsSupported("SRV"))
	require.False(t, IsSupported(""))
}
