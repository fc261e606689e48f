package runner

import (
	"os"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
)

// Options contains the configuration options for a dns enumeration run.
type Options struct {
	Domain             string              // Domain is the target domain to enumerate
	Wordlist           string              // Wordlist is the file containing labels to bruteforce
	Threads            int                 // Threads controls the number of parallel bruteforce probes
	Timeout            int                 // Timeout is the per query timeout in seconds
	RecordTypes        goflags.StringSlice // RecordTypes are the record types to enumerate
	NoZoneTransfer     bool                // NoZoneTransfer skips the zone transfer checks
	NoBruteforce       bool                // NoBruteforce skips the subdomain bruteforce
	OutputFormat       string              // OutputFormat is the format of the output file (txt, json or csv)
	OutputFile         string              // OutputFile is the file to write the results to
	Resolver           string              // Resolver is a nameserver ip overriding the system resolvers
	Recursive          bool                // Recursive bruteforces below the found subdomains
	RecursiveLimit     int                 // RecursiveLimit is the number of found subdomains enumerated recursively
	WildcardFilter     bool                // WildcardFilter removes subdomains answered by wildcard records
	WildcardThreshold  int                 // WildcardThreshold is the hosts per ip count that triggers a wildcard check
	WildcardThreads    int                 // WildcardThreads controls the number of parallel wildcard checks
	StrictWildcard     bool                // StrictWildcard performs the wildcard check on every found subdomain
	WildcardOutputFile string              // WildcardOutputFile is the file to dump wildcard ips to
	Directory          string              // Directory is a directory for temporary data
	Config             string              // Config is a flag config file merged with the command line
	Silent             bool                // Silent suppresses any extra text and only writes found subdomains to screen
	Verbose            bool                // Verbose flag indicates whether to show verbose output or not
	Debug              bool                // Debug shows debug output
	NoColor            bool                // NoColor disables the colored output
	NoProgress         bool                // NoProgress hides the bruteforce progress bar
	Version            bool                // Version specifies if we should just show version and exit
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`hawkbind enumerates dns records, checks zone transfers and bruteforces subdomains.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&options.Domain, "domain", "d", "", "target domain to enumerate"),
		flagSet.StringVarP(&options.Wordlist, "wordlist", "w", "", "file containing words to bruteforce for domain"),
	)

	flagSet.CreateGroup("enumeration", "Enumeration",
		flagSet.StringSliceVarP(&options.RecordTypes, "dns-records", "dr", nil, "dns record types to enumerate (A,AAAA,MX,NS,TXT,SOA,CNAME,PTR)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.BoolVarP(&options.NoZoneTransfer, "no-zone-transfer", "nzt", false, "skip the zone transfer checks"),
		flagSet.BoolVarP(&options.NoBruteforce, "no-bruteforce", "nb", false, "skip the subdomain bruteforce"),
		flagSet.BoolVar(&options.Recursive, "recursive", false, "bruteforce below the found subdomains (one level)"),
		flagSet.IntVarP(&options.RecursiveLimit, "recursive-limit", "rl", 5, "number of found subdomains to enumerate recursively"),
	)

	flagSet.CreateGroup("configuration", "Configuration",
		flagSet.StringVarP(&options.Resolver, "resolver", "r", "", "nameserver ip (optionally ip:port) to use instead of the system resolvers"),
		flagSet.IntVarP(&options.Threads, "threads", "t", 20, "number of concurrent bruteforce probes"),
		flagSet.IntVar(&options.Timeout, "timeout", 3, "timeout in seconds for every dns query"),
		flagSet.StringVar(&options.Directory, "directory", "", "temporary directory for wildcard filtering"),
		flagSet.StringVar(&options.Config, "config", "", "flag config file to use"),
	)

	flagSet.CreateGroup("wildcard", "Wildcard",
		flagSet.BoolVarP(&options.WildcardFilter, "wildcard-filter", "wf", false, "remove subdomains answered by wildcard records"),
		flagSet.IntVarP(&options.WildcardThreshold, "wildcard-threshold", "wth", 5, "hosts sharing an ip that trigger a wildcard check"),
		flagSet.IntVarP(&options.WildcardThreads, "wildcard-threads", "wt", 25, "number of concurrent wildcard checks"),
		flagSet.BoolVarP(&options.StrictWildcard, "strict-wildcard", "sw", false, "perform wildcard check on all found subdomains"),
		flagSet.StringVarP(&options.WildcardOutputFile, "wildcard-output", "wo", "", "dump wildcard ips to output file"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVar(&options.OutputFormat, "output", "", "output format (txt, json, csv)"),
		flagSet.StringVarP(&options.OutputFile, "output-file", "o", "", "file to write the results to"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only subdomains in output"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable colors in output"),
		flagSet.BoolVarP(&options.NoProgress, "no-progress", "np", false, "hide the bruteforce progress bar"),
		flagSet.BoolVar(&options.Version, "version", false, "show version of hawkbind"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Debug, "debug", false, "show debug output"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("Could not parse flags: %s\n", err)
	}

	if options.Config != "" {
		if err := flagSet.MergeConfigFile(options.Config); err != nil {
			gologger.Fatal().Msgf("Could not read config: %s\n", err)
		}
	}

	// Read the inputs and configure the logging
	options.configureOutput()

	// Show the user the banner
	if !options.Silent {
		showBanner()
	}

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version)
		os.Exit(0)
	}

	// Validate the options passed by the user and if any
	// invalid options have been used, exit.
	if err := options.validateOptions(); err != nil {
		gologger.Fatal().Msgf("Program exiting: %s\n", err)
	}
	return options
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.Debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}
