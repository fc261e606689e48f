package bruteforce

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/projectdiscovery/gologger"
	mapsutil "github.com/projectdiscovery/utils/maps"
	sliceutil "github.com/projectdiscovery/utils/slice"
	"github.com/remeh/sizedwaitgroup"
)

const (
	// DefaultTimeout bounds a probe when no timeout is configured
	DefaultTimeout = 3 * time.Second
	// DefaultSampleInterval is the number of completed probes between
	// two progress notifications.
	DefaultSampleInterval = 10
)

// Resolver resolves a name for a record type.
type Resolver interface {
	Resolve(ctx context.Context, name string, qtype uint16) ([]dns.RR, error)
}

// Options contains the configuration options for the engine
type Options struct {
	// Workers is the number of concurrent probes
	Workers int
	// Timeout bounds every single probe
	Timeout time.Duration
	// SampleInterval is the number of completions between progress updates
	SampleInterval int
	// Reporter receives progress and found notifications
	Reporter Reporter
}

// Engine brute-forces subdomains of a domain from candidate labels.
// An engine holds no per-run state and can be reused for several runs.
type Engine struct {
	resolver Resolver
	options  Options
}

// Result is the outcome of a single brute-force run.
type Result struct {
	// Domain is the base domain of the run
	Domain string
	// Subdomains are the names that resolved, sorted ascending
	Subdomains []string
	// Addresses maps every found subdomain to its A records
	Addresses map[string][]string
	// Checked is the number of completed probes
	Checked int
	// Total is the number of unique candidates
	Total int
	// Interrupted is set when the run was cancelled before completion
	Interrupted bool
}

// New creates a new brute-force engine on top of resolver.
func New(resolver Resolver, options Options) *Engine {
	if options.Workers <= 0 {
		options.Workers = 1
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.SampleInterval <= 0 {
		options.SampleInterval = DefaultSampleInterval
	}
	if options.Reporter == nil {
		options.Reporter = NopReporter{}
	}
	return &Engine{resolver: resolver, options: options}
}

type probeStatus int

const (
	notFound probeStatus = iota
	found
)

// probeResult is the outcome of one probe. The reason of a failed
// probe is not kept, every failure means not found.
type probeResult struct {
	name      string
	status    probeStatus
	addresses []string
}

// Run probes label.domain for every candidate and blocks until all
// dispatched probes completed. Cancelling ctx stops the dispatch and
// returns the subdomains found so far.
func (e *Engine) Run(ctx context.Context, domain string, candidates []string) *Result {
	labels := normalize(candidates)
	result := &Result{
		Domain:     domain,
		Subdomains: []string{},
		Addresses:  make(map[string][]string),
		Total:      len(labels),
	}
	if len(labels) == 0 {
		return result
	}

	foundSet := mapsutil.NewSyncLockMap[string, []string]()
	tracker := newTracker(len(labels), e.options.SampleInterval, e.options.Reporter)

	gologger.Debug().Msgf("Bruteforcing %d candidates for %s with %d workers\n", len(labels), domain, e.options.Workers)
	now := time.Now()

	swg := sizedwaitgroup.New(e.options.Workers)
	for _, label := range labels {
		if ctx.Err() != nil {
			break
		}
		if err := swg.AddWithContext(ctx); err != nil {
			break
		}
		go func(name string) {
			defer swg.Done()

			probe := e.probe(ctx, name)
			if probe.status == found {
				_ = foundSet.Set(probe.name, probe.addresses)
				e.options.Reporter.Found(probe.name, probe.addresses)
			}
			tracker.increment()
		}(label + "." + domain)
	}
	swg.Wait()

	result.Checked = tracker.checked()
	result.Interrupted = ctx.Err() != nil && result.Checked < result.Total
	if result.Interrupted {
		tracker.flush()
	}

	_ = foundSet.Iterate(func(name string, addresses []string) error {
		result.Subdomains = append(result.Subdomains, name)
		result.Addresses[name] = addresses
		return nil
	})
	sort.Strings(result.Subdomains)

	gologger.Debug().Msgf("Bruteforce of %s took %s (%d/%d checked)\n", domain, time.Since(now), result.Checked, result.Total)
	return result
}

// probe resolves the A records of name within the probe timeout.
func (e *Engine) probe(ctx context.Context, name string) probeResult {
	ctx, cancel := context.WithTimeout(ctx, e.options.Timeout)
	defer cancel()

	answers, err := e.resolver.Resolve(ctx, name, dns.TypeA)
	if err != nil {
		return probeResult{name: name, status: notFound}
	}

	var addresses []string
	for _, rr := range answers {
		if a, ok := rr.(*dns.A); ok {
			addresses = append(addresses, a.A.String())
		}
	}
	if len(addresses) == 0 {
		return probeResult{name: name, status: notFound}
	}
	return probeResult{name: name, status: found, addresses: addresses}
}

// normalize lowercases the candidates (RFC4343) and drops empty and
// duplicate labels so that no name is probed twice in a run.
func normalize(candidates []string) []string {
	labels := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		label := strings.ToLower(strings.TrimSpace(candidate))
		if label == "" {
			continue
		}
		labels = append(labels, label)
	}
	return sliceutil.Dedupe(labels)
}
