package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	sliceutil "github.com/projectdiscovery/utils/slice"
)

// Output formats
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Formats are the supported output formats.
var Formats = []string{FormatText, FormatJSON, FormatCSV}

// IsValidFormat reports whether format is a supported output format.
func IsValidFormat(format string) bool {
	return sliceutil.Contains(Formats, format)
}

// Write renders results to w in the given format.
func Write(w io.Writer, format string, results *Results) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatCSV:
		return WriteCSV(w, results)
	case FormatText:
		return WriteText(w, results)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// SaveToFile writes results to path, truncating any existing file.
func SaveToFile(path, format string, results *Results) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	bw := bufio.NewWriter(file)
	if err := Write(bw, format, results); err != nil {
		_ = file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteJSON writes the full result structure as indented json.
func WriteJSON(w io.Writer, results *Results) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	return encoder.Encode(results)
}

// WriteCSV flattens records and subdomains into Type,Value rows.
func WriteCSV(w io.Writer, results *Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Type", "Value"}); err != nil {
		return err
	}
	for _, set := range results.BasicRecords {
		for _, value := range set.Values {
			if err := cw.Write([]string{set.Type, value}); err != nil {
				return err
			}
		}
	}
	for _, subdomain := range results.Subdomains {
		if err := cw.Write([]string{"SUBDOMAIN", subdomain}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes a human readable report.
func WriteText(w io.Writer, results *Results) error {
	var b strings.Builder

	b.WriteString("╔══════════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(&b, "║ HawkBind Results for %s%s║\n", results.Domain, padding(41-len(results.Domain)))
	fmt.Fprintf(&b, "║ Timestamp: %s%s║\n", results.Timestamp, padding(36-len(results.Timestamp)))
	b.WriteString("╚══════════════════════════════════════════════════════════════╝\n\n")

	if results.RootDomain != "" && results.RootDomain != results.Domain {
		fmt.Fprintf(&b, "Root domain: %s\n\n", results.RootDomain)
	}

	b.WriteString("BASIC DNS RECORDS:\n")
	b.WriteString(rule(50) + "\n")
	for _, set := range results.BasicRecords {
		fmt.Fprintf(&b, "\n%s Records:\n", set.Type)
		if set.Error != "" {
			fmt.Fprintf(&b, "  └─ %s\n", set.Error)
			continue
		}
		for _, value := range set.Values {
			fmt.Fprintf(&b, "  ├─ %s\n", value)
		}
	}

	if zone := results.ZoneTransfer; zone != nil {
		b.WriteString("\nZONE TRANSFER:\n")
		b.WriteString(rule(50) + "\n")
		if zone.Error != "" {
			fmt.Fprintf(&b, "  └─ %s\n", zone.Error)
		}
		for _, attempt := range zone.Attempts {
			if !attempt.Success {
				fmt.Fprintf(&b, "\n%s: Failed\n", attempt.Nameserver)
				continue
			}
			fmt.Fprintf(&b, "\n%s: %d records\n", attempt.Nameserver, len(attempt.Records))
			for _, record := range attempt.Records {
				fmt.Fprintf(&b, "  ├─ %s (%s) -> %s\n", record.Name, record.Type, record.Data)
			}
		}
	}

	b.WriteString("\nSUBDOMAINS FOUND:\n")
	b.WriteString(rule(50) + "\n")
	for _, subdomain := range results.Subdomains {
		fmt.Fprintf(&b, "  ├─ %s\n", subdomain)
	}

	if len(results.Recursive) > 0 {
		b.WriteString("\nRECURSIVE SUBDOMAINS:\n")
		b.WriteString(rule(50) + "\n")
		for _, parent := range sortedKeys(results.Recursive) {
			fmt.Fprintf(&b, "\n%s:\n", parent)
			for _, subdomain := range results.Recursive[parent] {
				fmt.Fprintf(&b, "  ├─ %s\n", subdomain)
			}
		}
	}

	if results.Interrupted {
		b.WriteString("\n[!] Enumeration was interrupted, results are partial\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func padding(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

func rule(n int) string {
	return strings.Repeat("─", n)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
