package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/hawkbind/hawkbind/pkg/records"
	"github.com/hawkbind/hawkbind/pkg/zonetransfer"
	"github.com/logrusorgru/aurora"
)

const (
	maxRecordValues    = 5
	maxZoneRecords     = 10
	maxSubdomainsShown = 10
)

// Printer renders results on the console. It is safe for concurrent use.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
	au aurora.Aurora
}

// NewPrinter creates a console printer writing to w.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, au: aurora.NewAurora(!noColor)}
}

func (p *Printer) printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, format, args...)
}

// Target prints the target box shown before the enumeration starts.
func (p *Printer) Target(domain string, started time.Time) {
	stamp := started.Format(TimestampLayout)
	p.printf("\n%s\n", p.au.Cyan("╔══════════════════════════════════════════════════════════════╗"))
	p.printf("%s %s %s%s%s\n", p.au.Cyan("║"), p.au.White("Target:"), p.au.Yellow(domain), padding(53-len(domain)), p.au.Cyan("║"))
	p.printf("%s %s %s%s%s\n", p.au.Cyan("║"), p.au.White("Started:"), p.au.Green(stamp), padding(52-len(stamp)), p.au.Cyan("║"))
	p.printf("%s\n\n", p.au.Cyan("╚══════════════════════════════════════════════════════════════╝"))
}

// Stage announces the start of an enumeration phase.
func (p *Printer) Stage(message string) {
	p.printf("\n%s %s\n", p.au.Magenta("[*]"), p.au.Cyan(message))
}

// Records prints the values of every record set, at most five per type.
func (p *Printer) Records(sets []records.Set) {
	for _, set := range sets {
		if len(set.Values) == 0 {
			p.printf("  %s %s %s %s\n", p.au.Red("✗"), p.au.Cyan(set.Type), p.au.White("Records:"), p.au.Red(noneFound(set)))
			continue
		}
		p.printf("  %s %s %s\n", p.au.Green("✓"), p.au.Cyan(set.Type), p.au.White("Records:"))

		values := set.Values
		if len(values) <= maxRecordValues {
			for i, value := range values {
				p.printf("      %s %s\n", p.au.White(branch(i, len(values))), p.colorRecord(set.Type, value))
			}
			continue
		}
		for _, value := range values[:maxRecordValues-1] {
			p.printf("      %s %s\n", p.au.White("├─"), p.colorRecord(set.Type, value))
		}
		p.printf("      %s %s\n", p.au.White("└─"), p.au.Yellow(fmt.Sprintf("... and %d more", len(values)-(maxRecordValues-1))))
	}
}

func noneFound(set records.Set) string {
	if set.Error != "" {
		return set.Error
	}
	return "None found"
}

func (p *Printer) colorRecord(recordType, value string) aurora.Value {
	switch recordType {
	case "A":
		return p.au.Yellow(value)
	case "AAAA":
		return p.au.Magenta(value)
	case "MX":
		return p.au.Green(value)
	case "NS":
		return p.au.Blue(value)
	case "TXT":
		return p.au.Cyan(value)
	case "SOA":
		return p.au.Red(value)
	case "CNAME":
		return p.au.BrightMagenta(value)
	case "PTR":
		return p.au.BrightCyan(value)
	default:
		return p.au.White(value)
	}
}

// ZoneTransfer prints the outcome of the transfer attempts, with at most
// ten records per successful nameserver.
func (p *Printer) ZoneTransfer(zone *zonetransfer.Report) {
	if zone == nil {
		return
	}
	if zone.Error != "" {
		p.printf("  %s %s %s\n", p.au.Red("✗"), p.au.Cyan("Zone transfer:"), p.au.Red(zone.Error))
		return
	}
	for _, attempt := range zone.Attempts {
		if !attempt.Success {
			p.printf("  %s %s %s: %s\n", p.au.Red("✗"), p.au.Cyan("Zone transfer from"), p.au.Yellow(attempt.Nameserver), p.au.Red("Failed"))
			continue
		}
		p.printf("  %s %s %s:\n", p.au.Green("✓"), p.au.Cyan("Zone transfer from"), p.au.Yellow(attempt.Nameserver))
		p.printf("  %s\n", p.au.Cyan("  ╔"+strings.Repeat("═", 60)+"╗"))

		shown := attempt.Records
		if len(shown) > maxZoneRecords {
			shown = shown[:maxZoneRecords]
		}
		for i, record := range shown {
			p.printf("  %s   ║  %s %s (%s) -> %s\n", p.au.Cyan("║"), branch(i, len(shown)), record.Name, p.au.Magenta(record.Type), p.au.Green(record.Data))
		}
		if len(attempt.Records) > maxZoneRecords {
			p.printf("  %s      %s\n", p.au.Cyan("║"), p.au.Yellow(fmt.Sprintf("... and %d more records", len(attempt.Records)-maxZoneRecords)))
		}
		p.printf("  %s\n", p.au.Cyan("  ╚"+strings.Repeat("═", 60)+"╝"))
	}
}

// Subdomains prints the first ten found subdomains in a table.
func (p *Printer) Subdomains(subdomains []string) {
	if len(subdomains) == 0 {
		p.printf("\n%s No subdomains found\n", p.au.Red("[-]"))
		return
	}
	p.printf("\n%s %s %s %s\n", p.au.Green("[+]"), p.au.White("Found"), p.au.Yellow(len(subdomains)), p.au.White("subdomains:"))
	p.printf("\n    %s\n", p.au.Cyan("╔"+strings.Repeat("═", 50)+"╗"))

	shown := subdomains
	if len(shown) > maxSubdomainsShown {
		shown = shown[:maxSubdomainsShown]
	}
	for i, subdomain := range shown {
		prefix := "├─"
		if i == maxSubdomainsShown-1 {
			prefix = "└─"
		}
		p.printf("    %s %s %s%s%s\n", p.au.Cyan("║"), p.au.Green(prefix), p.au.Bold(subdomain), padding(47-len(subdomain)), p.au.Cyan("║"))
	}
	if len(subdomains) > maxSubdomainsShown {
		more := fmt.Sprintf("%d", len(subdomains)-maxSubdomainsShown)
		p.printf("    %s     %s%s%s\n", p.au.Cyan("║"), p.au.Yellow("... and "+more+" more"), padding(36-len(more)), p.au.Cyan("║"))
	}
	p.printf("    %s\n", p.au.Cyan("╚"+strings.Repeat("═", 50)+"╝"))
}

// Found prints a subdomain discovered while brute-forcing.
func (p *Printer) Found(name string, addresses []string) {
	if len(addresses) == 0 {
		p.printf("  %s Found: %s\n", p.au.Green("[+]"), p.au.Yellow(name))
		return
	}
	p.printf("  %s Found: %s -> %s\n", p.au.Green("[+]"), p.au.Yellow(name), strings.Join(addresses, ", "))
}

// Recursive prints the number of subdomains found below parent.
func (p *Printer) Recursive(parent string, subdomains []string) {
	p.printf("    %s Found %s subdomains under %s\n", p.au.Green("✓"), p.au.Yellow(len(subdomains)), parent)
}

// Saved announces the file results were written to.
func (p *Printer) Saved(path string) {
	p.printf("\n%s %s %s\n", p.au.Green("[+]"), p.au.White("Results saved to"), p.au.Yellow(path))
}

// Summary prints the end of run statistics.
func (p *Printer) Summary(results *Results, completed time.Time) {
	p.printf("\n%s\n", p.au.Cyan(strings.Repeat("═", 60)))
	p.printf("%s %s %s\n", p.au.Green("✓"), p.au.White("Enumeration completed at"), p.au.Yellow(completed.Format(TimestampLayout)))
	p.printf("%s %s %s\n", p.au.Green("✓"), p.au.White("Total subdomains found:"), p.au.Yellow(len(results.Subdomains)))
	p.printf("%s %s %s\n", p.au.Green("✓"), p.au.White("Total DNS records found:"), p.au.Yellow(results.TotalRecords()))
	if results.ZoneTransfer != nil {
		status := p.au.Red("FAILED")
		if results.ZoneTransfer.Vulnerable() {
			status = p.au.Green("SUCCESSFUL")
		}
		p.printf("%s %s %s\n", p.au.Green("✓"), p.au.White("Zone transfer:"), status)
	}
	if len(results.Wildcards) > 0 {
		p.printf("%s %s %s\n", p.au.Green("✓"), p.au.White("Wildcard addresses removed:"), p.au.Yellow(len(results.Wildcards)))
	}
	p.printf("%s\n\n", p.au.Cyan(strings.Repeat("═", 60)))
}

func branch(i, n int) string {
	if i < n-1 {
		return "├─"
	}
	return "└─"
}
