package wildcards

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
	"github.com/projectdiscovery/dnsx/libs/dnsx"
	"github.com/projectdiscovery/gologger"
	mapsutil "github.com/projectdiscovery/utils/maps"
	stringsutil "github.com/projectdiscovery/utils/strings"
	"github.com/rs/xid"
)

// Querier answers A queries for wildcard probes.
type Querier interface {
	// QueryA returns the A records and the rcode of the answer for host
	QueryA(host string) (ips []string, rcode int, err error)
}

type dnsxQuerier struct {
	client *dnsx.DNSX
}

func (q *dnsxQuerier) QueryA(host string) ([]string, int, error) {
	data, err := q.client.QueryOne(host)
	if err != nil {
		return nil, 0, err
	}
	if data == nil {
		return nil, dns.RcodeServerFailure, nil
	}
	return data.A, data.StatusCodeRaw, nil
}

// Resolver represents a dns resolver for removing wildcards
type Resolver struct {
	domains []string
	querier Querier

	levelAnswersNormalCache *mapsutil.SyncLockMap[string, struct{}]
	wildcardAnswersCache    *mapsutil.SyncLockMap[string, []string]
}

// NewResolver initializes and creates a new resolver to find wildcards
// under domains, querying the given resolvers (host:port).
func NewResolver(domains []string, retries int, resolvers []string) (*Resolver, error) {
	options := dnsx.DefaultOptions
	options.BaseResolvers = resolvers
	options.MaxRetries = retries
	dnsResolver, err := dnsx.New(options)
	if err != nil {
		return nil, fmt.Errorf("could not create dns resolver: %w", err)
	}
	return newResolver(domains, &dnsxQuerier{client: dnsResolver}), nil
}

func newResolver(domains []string, querier Querier) *Resolver {
	return &Resolver{
		domains:                 domains,
		querier:                 querier,
		levelAnswersNormalCache: mapsutil.NewSyncLockMap[string, struct{}](),
		wildcardAnswersCache:    mapsutil.NewSyncLockMap[string, []string](),
	}
}

// generateWildcardPermutations generates wildcard permutations for a given subdomain
// and domain. It generates permutations for each level of the subdomain
// in reverse order.
func generateWildcardPermutations(subdomain, domain string) []string {
	var hosts []string
	subdomainTokens := strings.Split(subdomain, ".")

	var builder strings.Builder
	builder.Grow(len(subdomain) + len(domain) + 5)

	// Iterate from the reverse order. This way we generate the roots
	// first and allows us to do filtering faster, by trying out the root
	// like *.example.com first, and *.child.example.com in that order.
	builder.WriteString("*.")
	builder.WriteString(domain)
	hosts = append(hosts, builder.String())
	builder.Reset()

	for i := len(subdomainTokens); i > 1; i-- {
		_, _ = builder.WriteString("*.")
		_, _ = builder.WriteString(strings.Join(subdomainTokens[i-1:], "."))
		_, _ = builder.WriteRune('.')
		_, _ = builder.WriteString(domain)
		hosts = append(hosts, builder.String())
		builder.Reset()
	}
	return hosts
}

// LookupHost reports whether host, which resolved to ips, is a
// wildcard answer. Every level above host is probed with a random label;
// the answers of wildcard levels are returned as well.
func (w *Resolver) LookupHost(host string, ips []string) (bool, map[string]struct{}) {
	wildcards := make(map[string]struct{})

	var domain string
	for _, candidate := range w.domains {
		if stringsutil.HasSuffixAny(host, "."+candidate) {
			domain = candidate
			break
		}
	}
	if domain == "" {
		gologger.Debug().Msgf("no domain found - skipping: %s\n", host)
		return false, nil
	}

	subdomainPart := strings.TrimSuffix(host, "."+domain)
	for _, h := range generateWildcardPermutations(subdomainPart, domain) {
		original := h

		// ex. *.campaigns.google.com is a wildcard so we cache its
		// answers and reuse them for every host below it.
		if cached, ok := w.wildcardAnswersCache.Get(original); ok {
			for _, ip := range cached {
				wildcards[ip] = struct{}{}
			}
			continue
		}
		// ex. *.google.com which is not a wildcard and returns NXDOMAIN
		if _, ok := w.levelAnswersNormalCache.Get(original); ok {
			continue
		}

		probe := strings.Replace(h, "*", xid.New().String(), 1)
		answers, rcode, err := w.querier.QueryA(probe)
		if err != nil {
			continue
		}
		if rcode != dns.RcodeSuccess || len(answers) == 0 {
			_ = w.levelAnswersNormalCache.Set(original, struct{}{})
			continue
		}

		for _, ip := range answers {
			wildcards[ip] = struct{}{}
		}
		_ = w.wildcardAnswersCache.Set(original, answers)
	}

	for _, ip := range ips {
		if _, ok := wildcards[ip]; ok {
			return true, wildcards
		}
	}
	return false, wildcards
}
