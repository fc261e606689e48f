package wildcards

import (
	"fmt"
	"sort"

	"github.com/hawkbind/hawkbind/pkg/store"
	"github.com/projectdiscovery/gologger"
	"github.com/remeh/sizedwaitgroup"
)

// DefaultThreshold is the number of hosts sharing an address above
// which the hosts are checked for wildcards.
const DefaultThreshold = 5

// FilterOptions contains the configuration options for wildcard filtering
type FilterOptions struct {
	// Threads is the number of concurrent wildcard checks
	Threads int
	// Threshold is the host count per address that triggers a check
	Threshold int
	// Strict checks every host regardless of the threshold
	Strict bool
	// TempDir is where the temporary address index is created
	TempDir string
}

// Filter removes hosts answered by wildcard records.
type Filter struct {
	resolver  *Resolver
	options   FilterOptions
	wildcards *Store
}

// NewFilter creates a new wildcard filter on top of resolver.
func NewFilter(resolver *Resolver, options FilterOptions) *Filter {
	if options.Threads <= 0 {
		options.Threads = 1
	}
	if options.Threshold <= 0 {
		options.Threshold = DefaultThreshold
	}
	return &Filter{resolver: resolver, options: options, wildcards: NewStore()}
}

// Wildcards returns the addresses identified as wildcard answers.
func (f *Filter) Wildcards() *Store {
	return f.wildcards
}

// Apply takes the found hosts with their addresses and returns the
// sorted hosts that are not wildcard answers.
func (f *Filter) Apply(found map[string][]string) ([]string, error) {
	st, err := store.New(f.options.TempDir)
	if err != nil {
		return nil, fmt.Errorf("could not create store: %w", err)
	}
	defer st.Close()

	unique := make(map[string]struct{})
	for host, ips := range found {
		// nothing to compare against, keep it
		if len(ips) == 0 {
			unique[host] = struct{}{}
		}
		for _, ip := range ips {
			if err := st.Append(ip, host); err != nil {
				return nil, fmt.Errorf("could not update record: %w", err)
			}
		}
	}

	// Build hostname -> IPs map to avoid redundant DNS queries
	hostnameToIPs := make(map[string][]string)
	hostnameCounters := make(map[string]int)
	st.Iterate(func(ip string, hostnames []string, counter int) {
		for _, hostname := range hostnames {
			hostnameToIPs[hostname] = append(hostnameToIPs[hostname], ip)
			if counter > hostnameCounters[hostname] {
				hostnameCounters[hostname] = counter
			}
		}
	})

	wildcardWg := sizedwaitgroup.New(f.options.Threads)
	for hostname, ips := range hostnameToIPs {
		if f.hasWildcardIP(ips) {
			continue
		}
		if hostnameCounters[hostname] < f.options.Threshold && !f.options.Strict {
			continue
		}

		wildcardWg.Add()
		go func(hostname string, ips []string) {
			defer wildcardWg.Done()

			isWildcard, wildcardIPs := f.resolver.LookupHost(hostname, ips)
			for ip := range wildcardIPs {
				if err := f.wildcards.Set(ip); err != nil {
					gologger.Error().Msgf("could not set wildcard ip: %s\n", err)
				}
			}
			if isWildcard {
				gologger.Verbose().Msgf("Removed wildcard hostname %s with %d IPs\n", hostname, len(ips))
			}
		}(hostname, ips)
	}
	wildcardWg.Wait()

	err = f.wildcards.Iterate(func(ip string) error {
		return st.Delete(ip)
	})
	if err != nil {
		return nil, fmt.Errorf("could not remove wildcards: %w", err)
	}

	st.Iterate(func(ip string, hostnames []string, counter int) {
		for _, hostname := range hostnames {
			unique[hostname] = struct{}{}
		}
	})
	hosts := make([]string, 0, len(unique))
	for hostname := range unique {
		hosts = append(hosts, hostname)
	}
	sort.Strings(hosts)
	return hosts, nil
}

func (f *Filter) hasWildcardIP(ips []string) bool {
	for _, ip := range ips {
		if f.wildcards.Has(ip) {
			return true
		}
	}
	return false
}
