package report

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/hawkbind/hawkbind/pkg/records"
	"github.com/hawkbind/hawkbind/pkg/zonetransfer"
	"github.com/stretchr/testify/require"
)

func TestPrinterRecords(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true)

	printer.Records([]records.Set{
		{Type: "A", Values: []string{"1.1.1.1", "1.1.1.2", "1.1.1.3", "1.1.1.4", "1.1.1.5", "1.1.1.6", "1.1.1.7"}},
		{Type: "NS", Values: []string{"ns1.example.com", "ns2.example.com"}},
		{Type: "TXT", Values: []string{}},
		{Type: "SOA", Values: []string{}, Error: "SERVFAIL"},
	})

	out := buf.String()
	require.Contains(t, out, "  ✓ A Records:\n      ├─ 1.1.1.1\n")
	require.Contains(t, out, "      ├─ 1.1.1.4\n      └─ ... and 3 more\n")
	require.NotContains(t, out, "1.1.1.5")
	require.Contains(t, out, "      ├─ ns1.example.com\n      └─ ns2.example.com\n")
	require.Contains(t, out, "  ✗ TXT Records: None found\n")
	require.Contains(t, out, "  ✗ SOA Records: SERVFAIL\n")
}

func TestPrinterZoneTransfer(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true)

	var transferred []zonetransfer.Record
	for i := 0; i < 12; i++ {
		transferred = append(transferred, zonetransfer.Record{Name: fmt.Sprintf("h%d.example.com.", i), Type: "A", Data: "10.0.0.1"})
	}
	printer.ZoneTransfer(&zonetransfer.Report{
		Domain: "example.com",
		Attempts: []zonetransfer.Attempt{
			{Nameserver: "ns1.example.com", Success: true, Records: transferred},
			{Nameserver: "ns2.example.com", Error: "refused"},
		},
	})

	out := buf.String()
	require.Contains(t, out, "✓ Zone transfer from ns1.example.com:")
	require.Contains(t, out, "h9.example.com. (A) -> 10.0.0.1")
	require.NotContains(t, out, "h10.example.com.")
	require.Contains(t, out, "... and 2 more records")
	require.Contains(t, out, "✗ Zone transfer from ns2.example.com: Failed")
}

func TestPrinterSubdomains(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true)

	printer.Subdomains(nil)
	require.Contains(t, buf.String(), "[-] No subdomains found")

	buf.Reset()
	var subdomains []string
	for i := 0; i < 13; i++ {
		subdomains = append(subdomains, fmt.Sprintf("s%02d.example.com", i))
	}
	printer.Subdomains(subdomains)

	out := buf.String()
	require.Contains(t, out, "[+] Found 13 subdomains:")
	require.Contains(t, out, "├─ s00.example.com")
	require.Contains(t, out, "└─ s09.example.com")
	require.NotContains(t, out, "s10.example.com")
	require.Contains(t, out, "... and 3 more")
}

func TestPrinterSummary(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true)

	results := testResults()
	results.ZoneTransfer = &zonetransfer.Report{Domain: "example.com"}
	printer.Summary(results, time.Date(2024, 5, 1, 10, 31, 0, 0, time.UTC))

	out := buf.String()
	require.Contains(t, out, "Enumeration completed at 2024-05-01 10:31:00")
	require.Contains(t, out, "Total subdomains found: 2")
	require.Contains(t, out, "Total DNS records found: 3")
	require.Contains(t, out, "Zone transfer: FAILED")
}
