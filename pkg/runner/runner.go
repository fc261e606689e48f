package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hawkbind/hawkbind/pkg/bruteforce"
	"github.com/hawkbind/hawkbind/pkg/records"
	"github.com/hawkbind/hawkbind/pkg/report"
	"github.com/hawkbind/hawkbind/pkg/resolver"
	"github.com/hawkbind/hawkbind/pkg/wildcards"
	"github.com/hawkbind/hawkbind/pkg/wordlist"
	"github.com/hawkbind/hawkbind/pkg/zonetransfer"
	"github.com/projectdiscovery/gologger"
	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// ErrInterrupted is returned when the enumeration was cancelled before
// it completed. The returned results are partial.
var ErrInterrupted = errors.New("enumeration interrupted")

// Runner is a client for running the enumeration process.
type Runner struct {
	options  *Options
	resolver resolver.Resolver
	servers  []string
	printer  *report.Printer
	stderr   io.Writer

	wildcards *wildcards.Store
}

// New creates a new client for running enumeration process.
func New(options *Options) (*Runner, error) {
	var servers []string
	if options.Resolver != "" {
		servers = []string{options.Resolver}
	}
	client, err := resolver.New(resolver.Options{
		Servers: servers,
		Timeout: options.timeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create resolver: %w", err)
	}
	gologger.Debug().Msgf("Using nameservers %v\n", client.Servers())

	return newRunner(options, client, client.Servers(), os.Stdout, os.Stderr), nil
}

func newRunner(options *Options, r resolver.Resolver, servers []string, stdout, stderr io.Writer) *Runner {
	if options.Silent {
		stdout = io.Discard
	}
	return &Runner{
		options:  options,
		resolver: r,
		servers:  servers,
		printer:  report.NewPrinter(stdout, options.NoColor),
		stderr:   stderr,

		wildcards: wildcards.NewStore(),
	}
}

func (options *Options) timeout() time.Duration {
	return time.Duration(options.Timeout) * time.Second
}

// RunEnumeration runs the record enumeration, the zone transfer checks and
// the subdomain bruteforce in turn. When ctx is cancelled the phases that
// completed are still reported and saved, and ErrInterrupted is returned.
func (r *Runner) RunEnumeration(ctx context.Context) (*report.Results, error) {
	domain := r.options.Domain
	started := time.Now()

	results := report.New(domain, started)
	results.RootDomain = rootDomain(domain)
	r.printer.Target(domain, started)

	r.printer.Stage("Enumerating basic DNS records...")
	results.BasicRecords = records.New(r.resolver, r.options.timeout()).Enumerate(ctx, domain, r.options.RecordTypes)
	r.printer.Records(results.BasicRecords)

	if !r.options.NoZoneTransfer && ctx.Err() == nil {
		r.printer.Stage("Attempting zone transfer...")
		results.ZoneTransfer = zonetransfer.New(r.resolver, r.options.timeout()).Check(ctx, domain)
		r.printer.ZoneTransfer(results.ZoneTransfer)
		if results.ZoneTransfer.Vulnerable() {
			gologger.Warning().Msgf("Zone transfer allowed for %s\n", domain)
		}
	}

	switch {
	case r.options.NoBruteforce:
		gologger.Verbose().Msgf("Skipping subdomain bruteforce\n")
	case r.options.Wordlist == "":
		gologger.Verbose().Msgf("No wordlist given, skipping subdomain bruteforce\n")
	case ctx.Err() == nil:
		r.bruteforce(ctx, results)
	}

	if !r.wildcards.IsEmpty() {
		results.Wildcards = r.wildcards.Items()
		if r.options.WildcardOutputFile != "" {
			if err := r.wildcards.SaveToFile(r.options.WildcardOutputFile); err != nil {
				gologger.Error().Msgf("Could not dump wildcards: %s\n", err)
			}
		}
	}

	results.Interrupted = ctx.Err() != nil
	if results.Interrupted {
		gologger.Warning().Msgf("Enumeration interrupted, results are partial\n")
	}

	if r.options.Silent {
		for _, subdomain := range results.Subdomains {
			gologger.Silent().Msgf("%s\n", subdomain)
		}
		for _, subdomains := range results.Recursive {
			for _, subdomain := range subdomains {
				gologger.Silent().Msgf("%s\n", subdomain)
			}
		}
	}

	if r.options.shouldSave() {
		if err := report.SaveToFile(r.options.OutputFile, r.options.OutputFormat, results); err != nil {
			return results, fmt.Errorf("could not save results: %w", err)
		}
		r.printer.Saved(r.options.OutputFile)
	}

	r.printer.Summary(results, time.Now())

	if results.Interrupted {
		return results, ErrInterrupted
	}
	return results, nil
}

// bruteforce runs the engine on the domain and, when enabled, once more
// below the first found subdomains.
func (r *Runner) bruteforce(ctx context.Context, results *report.Results) {
	words, err := wordlist.Load(r.options.Wordlist)
	if err != nil {
		gologger.Error().Msgf("Could not load wordlist, skipping bruteforce: %s\n", err)
		return
	}
	gologger.Verbose().Msgf("Loaded %d words from %s\n", len(words), r.options.Wordlist)

	r.printer.Stage("Starting subdomain brute-forcing...")
	found := r.runEngine(ctx, results.Domain, words)
	results.Subdomains = r.filterWildcards(results.Domain, found)
	r.printer.Subdomains(results.Subdomains)

	if !r.options.Recursive || len(results.Subdomains) == 0 || ctx.Err() != nil {
		return
	}

	r.printer.Stage("Starting recursive enumeration...")
	parents := results.Subdomains
	if len(parents) > r.options.RecursiveLimit {
		parents = parents[:r.options.RecursiveLimit]
	}
	for _, parent := range parents {
		if ctx.Err() != nil {
			return
		}
		gologger.Info().Msgf("Recursively enumerating %s\n", parent)
		child := r.runEngine(ctx, parent, words)
		subdomains := r.filterWildcards(parent, child)
		if len(subdomains) > 0 {
			results.AddRecursive(parent, subdomains)
			r.printer.Recursive(parent, subdomains)
		}
	}
}

func (r *Runner) runEngine(ctx context.Context, domain string, words []string) *bruteforce.Result {
	var reporter bruteforce.Reporter = bruteforce.NopReporter{}
	var bar *report.ProgressBar
	switch {
	case r.options.Silent:
	case r.options.NoProgress:
		reporter = report.NewFoundPrinter(r.printer)
	default:
		bar = report.NewProgressBar(r.stderr, "Brute-forcing "+domain, r.options.NoColor)
		reporter = bar
	}

	engine := bruteforce.New(r.resolver, bruteforce.Options{
		Workers:  r.options.Threads,
		Timeout:  r.options.timeout(),
		Reporter: reporter,
	})
	result := engine.Run(ctx, domain, words)
	if bar != nil {
		bar.Finish()
	}
	gologger.Verbose().Msgf("Checked %d/%d candidates for %s, found %d\n", result.Checked, result.Total, domain, len(result.Subdomains))
	return result
}

// filterWildcards removes the wildcard answers from the bruteforce result
// when wildcard filtering was requested.
func (r *Runner) filterWildcards(domain string, result *bruteforce.Result) []string {
	if !r.options.WildcardFilter || len(result.Subdomains) == 0 {
		return result.Subdomains
	}

	wildcardResolver, err := wildcards.NewResolver([]string{domain}, 1, r.servers)
	if err != nil {
		gologger.Error().Msgf("Could not create wildcard resolver: %s\n", err)
		return result.Subdomains
	}
	filter := wildcards.NewFilter(wildcardResolver, wildcards.FilterOptions{
		Threads:   r.options.WildcardThreads,
		Threshold: r.options.WildcardThreshold,
		Strict:    r.options.StrictWildcard,
		TempDir:   r.options.Directory,
	})

	subdomains, err := filter.Apply(result.Addresses)
	if err != nil {
		gologger.Error().Msgf("Could not filter wildcards: %s\n", err)
		return result.Subdomains
	}
	if removed := len(result.Subdomains) - len(subdomains); removed > 0 {
		gologger.Info().Msgf("Removed %d wildcard subdomains of %s\n", removed, domain)
	}

	for _, ip := range filter.Wildcards().Items() {
		_ = r.wildcards.Set(ip)
	}
	return subdomains
}

// rootDomain returns the registrable domain of domain, or an empty string
// when domain is itself a public suffix.
func rootDomain(domain string) string {
	root, err := publicsuffix.Domain(domain)
	if err != nil {
		gologger.Warning().Msgf("%s looks like a public suffix: %s\n", domain, err)
		return ""
	}
	return root
}
