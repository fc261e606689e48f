// Package report holds the aggregated results of an enumeration and
// renders them to the console and to txt, json or csv files.
package report

import (
	"time"

	"github.com/hawkbind/hawkbind/pkg/records"
	"github.com/hawkbind/hawkbind/pkg/zonetransfer"
)

// TimestampLayout is the layout of the report timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Results are the aggregated results of one run.
type Results struct {
	Domain       string               `json:"domain"`
	RootDomain   string               `json:"root_domain,omitempty"`
	Timestamp    string               `json:"timestamp"`
	BasicRecords []records.Set        `json:"basic_records"`
	Subdomains   []string             `json:"subdomains"`
	ZoneTransfer *zonetransfer.Report `json:"zone_transfer"`
	Recursive    map[string][]string  `json:"recursive,omitempty"`
	Wildcards    []string             `json:"wildcards,omitempty"`
	Interrupted  bool                 `json:"interrupted,omitempty"`
}

// New creates empty results for domain stamped with now.
func New(domain string, now time.Time) *Results {
	return &Results{
		Domain:       domain,
		Timestamp:    now.Format(TimestampLayout),
		BasicRecords: []records.Set{},
		Subdomains:   []string{},
	}
}

// TotalRecords is the number of values found across all record types.
func (r *Results) TotalRecords() int {
	var total int
	for _, set := range r.BasicRecords {
		total += len(set.Values)
	}
	return total
}

// AddRecursive stores the subdomains found below parent.
func (r *Results) AddRecursive(parent string, subdomains []string) {
	if len(subdomains) == 0 {
		return
	}
	if r.Recursive == nil {
		r.Recursive = make(map[string][]string)
	}
	r.Recursive[parent] = subdomains
}
