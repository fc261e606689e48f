package runner

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hawkbind/hawkbind/pkg/records"
	"github.com/hawkbind/hawkbind/pkg/report"
	"github.com/hawkbind/hawkbind/pkg/resolver"
	"github.com/projectdiscovery/gologger"
)

var domainPattern = regexp.MustCompile(`(?i)^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// ValidateDomain checks domain against the hostname grammar and returns
// it lower-cased.
func ValidateDomain(domain string) (string, error) {
	if !domainPattern.MatchString(domain) {
		return "", fmt.Errorf("invalid domain format: %s", domain)
	}
	return strings.ToLower(domain), nil
}

// validateOptions validates the configuration options passed
func (options *Options) validateOptions() error {
	// Both verbose and silent flags were used
	if options.Verbose && options.Silent {
		return errors.New("both verbose and silent mode specified")
	}

	if options.Domain == "" {
		return errors.New("no domain was provided for enumeration")
	}
	domain, err := ValidateDomain(options.Domain)
	if err != nil {
		return err
	}
	options.Domain = domain

	recordTypes := make([]string, 0, len(options.RecordTypes))
	for _, recordType := range options.RecordTypes {
		recordType = strings.ToUpper(strings.TrimSpace(recordType))
		if recordType == "" {
			continue
		}
		if !records.IsSupported(recordType) {
			return fmt.Errorf("invalid dns record type: %s", recordType)
		}
		recordTypes = append(recordTypes, recordType)
	}
	if len(recordTypes) == 0 {
		recordTypes = records.Default
	}
	options.RecordTypes = recordTypes

	if options.OutputFormat != "" && !report.IsValidFormat(options.OutputFormat) {
		return fmt.Errorf("invalid output format: %s", options.OutputFormat)
	}
	if options.OutputFormat != "" && options.OutputFile == "" {
		gologger.Warning().Msgf("Output format given without an output file, results will not be saved\n")
	}
	if options.OutputFile != "" && options.OutputFormat == "" {
		gologger.Warning().Msgf("Output file given without an output format, results will not be saved\n")
	}

	if options.Resolver != "" {
		server, err := resolver.NormalizeServer(options.Resolver)
		if err != nil {
			return err
		}
		options.Resolver = server
	}

	if options.Timeout <= 0 {
		return errors.New("timeout must be a positive number of seconds")
	}
	if options.Threads <= 0 {
		return errors.New("threads must be a positive number")
	}
	if options.Recursive && options.RecursiveLimit <= 0 {
		return errors.New("recursive limit must be a positive number")
	}
	if options.WildcardFilter && options.WildcardThreshold <= 0 {
		return errors.New("wildcard threshold must be a positive number")
	}
	if options.WildcardOutputFile != "" && !options.WildcardFilter {
		gologger.Warning().Msgf("Wildcard output file given without wildcard filtering, no wildcards will be saved\n")
	}
	return nil
}

// shouldSave reports whether the results are persisted.
func (options *Options) shouldSave() bool {
	return options.OutputFormat != "" && options.OutputFile != ""
}
