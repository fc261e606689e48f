package bruteforce

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

// mockResolver answers A queries for the names in records. Any other
// name either fails right away with NXDOMAIN or blocks until the probe
// context expires, simulating a timeout.
type mockResolver struct {
	records  map[string]string
	failFast bool

	mu    sync.Mutex
	calls map[string]int
}

func newMockResolver(failFast bool, records map[string]string) *mockResolver {
	return &mockResolver{records: records, failFast: failFast, calls: make(map[string]int)}
}

func (m *mockResolver) Resolve(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	m.mu.Lock()
	m.calls[name]++
	m.mu.Unlock()

	if ip, ok := m.records[name]; ok && qtype == dns.TypeA {
		return []dns.RR{&dns.A{
			Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
			A:   net.ParseIP(ip),
		}}, nil
	}
	if m.failFast {
		return nil, fmt.Errorf("%s: NXDOMAIN", name)
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (m *mockResolver) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

type recordingReporter struct {
	mu         sync.Mutex
	progress   [][2]int
	found      []string
	onFound    func(name string)
	onProgress func(checked, total int)
}

func (r *recordingReporter) Progress(checked, total int) {
	r.mu.Lock()
	r.progress = append(r.progress, [2]int{checked, total})
	r.mu.Unlock()
	if r.onProgress != nil {
		r.onProgress(checked, total)
	}
}

func (r *recordingReporter) Found(name string, addresses []string) {
	r.mu.Lock()
	r.found = append(r.found, name)
	r.mu.Unlock()
	if r.onFound != nil {
		r.onFound(name)
	}
}

func (r *recordingReporter) last() [2]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.progress) == 0 {
		return [2]int{}
	}
	return r.progress[len(r.progress)-1]
}

func TestEngineRunFindsResolvingCandidates(t *testing.T) {
	resolver := newMockResolver(false, map[string]string{
		"www.example.com": "93.184.216.34",
		"api.example.com": "93.184.216.35",
	})
	reporter := &recordingReporter{}
	engine := New(resolver, Options{Workers: 4, Timeout: 20 * time.Millisecond, Reporter: reporter})

	result := engine.Run(context.Background(), "example.com", []string{"www", "api", "mail", "ftp"})

	require.Equal(t, []string{"api.example.com", "www.example.com"}, result.Subdomains)
	require.Equal(t, []string{"93.184.216.34"}, result.Addresses["www.example.com"])
	require.Equal(t, 4, result.Checked)
	require.Equal(t, 4, result.Total)
	require.False(t, result.Interrupted)
	require.Equal(t, [2]int{4, 4}, reporter.last())
	require.ElementsMatch(t, []string{"api.example.com", "www.example.com"}, reporter.found)
}

func TestEngineRunAlwaysTimingOut(t *testing.T) {
	resolver := newMockResolver(false, nil)
	reporter := &recordingReporter{}
	engine := New(resolver, Options{Workers: 5, Timeout: 10 * time.Millisecond, Reporter: reporter})

	candidates := make([]string, 25)
	for i := range candidates {
		candidates[i] = fmt.Sprintf("host%d", i)
	}
	result := engine.Run(context.Background(), "example.com", candidates)

	require.Empty(t, result.Subdomains)
	require.NotNil(t, result.Subdomains)
	require.Equal(t, 25, result.Checked)
	require.Equal(t, [2]int{25, 25}, reporter.last())
	require.Empty(t, reporter.found)
}

func TestEngineRunDeterministicAcrossWorkers(t *testing.T) {
	records := make(map[string]string)
	candidates := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		label := fmt.Sprintf("w%03d", i)
		candidates = append(candidates, label)
		if i%3 == 0 {
			records[label+".example.com"] = fmt.Sprintf("10.0.%d.%d", i/256, i%256)
		}
	}
	allowed := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		allowed[c+".example.com"] = struct{}{}
	}

	run := func(workers int) (*Result, *mockResolver) {
		resolver := newMockResolver(true, records)
		engine := New(resolver, Options{Workers: workers, Timeout: time.Second})
		return engine.Run(context.Background(), "example.com", candidates), resolver
	}

	single, singleResolver := run(1)
	many, manyResolver := run(50)

	require.Equal(t, single.Subdomains, many.Subdomains)
	require.Len(t, single.Subdomains, 100)
	require.True(t, sort.StringsAreSorted(many.Subdomains))
	require.Equal(t, 300, single.Checked)
	require.Equal(t, 300, many.Checked)
	require.Equal(t, 300, singleResolver.totalCalls())
	require.Equal(t, 300, manyResolver.totalCalls())

	seen := make(map[string]struct{})
	for _, name := range many.Subdomains {
		require.Contains(t, allowed, name)
		require.NotContains(t, seen, name, "duplicate subdomain %s", name)
		seen[name] = struct{}{}
	}
}

func TestEngineRunEmptyCandidates(t *testing.T) {
	resolver := newMockResolver(true, nil)
	reporter := &recordingReporter{}
	engine := New(resolver, Options{Workers: 10, Reporter: reporter})

	result := engine.Run(context.Background(), "example.com", nil)
	require.NotNil(t, result.Subdomains)
	require.Empty(t, result.Subdomains)
	require.Equal(t, 0, result.Total)
	require.Equal(t, 0, result.Checked)
	require.Zero(t, resolver.totalCalls())
	require.Empty(t, reporter.progress)
}

func TestEngineRunProbesEachCandidateOnce(t *testing.T) {
	resolver := newMockResolver(true, map[string]string{"www.example.com": "10.0.0.1"})
	engine := New(resolver, Options{Workers: 3})

	result := engine.Run(context.Background(), "example.com", []string{"www", "WWW", " www ", "", "mail", "mail"})
	require.Equal(t, []string{"www.example.com"}, result.Subdomains)
	require.Equal(t, 2, result.Total)
	require.Equal(t, 2, result.Checked)
	require.Equal(t, map[string]int{"www.example.com": 1, "mail.example.com": 1}, resolver.calls)
}

func TestEngineRunNonPositiveWorkers(t *testing.T) {
	resolver := newMockResolver(true, map[string]string{"a.example.com": "10.0.0.1"})
	engine := New(resolver, Options{Workers: 0, Timeout: -1})

	result := engine.Run(context.Background(), "example.com", []string{"a", "b", "c"})
	require.Equal(t, []string{"a.example.com"}, result.Subdomains)
	require.Equal(t, 3, result.Checked)
}

func TestEngineProgressSampling(t *testing.T) {
	resolver := newMockResolver(true, nil)
	reporter := &recordingReporter{}
	engine := New(resolver, Options{Workers: 8, SampleInterval: 10, Reporter: reporter})

	candidates := make([]string, 25)
	for i := range candidates {
		candidates[i] = fmt.Sprintf("c%d", i)
	}
	engine.Run(context.Background(), "example.com", candidates)

	require.NotEmpty(t, reporter.progress)
	require.LessOrEqual(t, len(reporter.progress), 3)
	previous := 0
	for _, update := range reporter.progress {
		checked, total := update[0], update[1]
		require.Equal(t, 25, total)
		require.Greater(t, checked, previous)
		require.True(t, checked%10 == 0 || checked == total, "unexpected sample %d", checked)
		previous = checked
	}
	require.Equal(t, [2]int{25, 25}, reporter.last())
}

func TestEngineProbeTimeoutDoesNotBlockRun(t *testing.T) {
	resolver := newMockResolver(false, map[string]string{"fast.example.com": "10.0.0.1"})
	engine := New(resolver, Options{Workers: 3, Timeout: 50 * time.Millisecond})

	now := time.Now()
	result := engine.Run(context.Background(), "example.com", []string{"slow1", "fast", "slow2"})

	require.Less(t, time.Since(now), time.Second)
	require.Equal(t, []string{"fast.example.com"}, result.Subdomains)
	require.Equal(t, 3, result.Checked)
}

func TestEngineRunCancelled(t *testing.T) {
	resolver := newMockResolver(false, map[string]string{"www.example.com": "10.0.0.1"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reporter := &recordingReporter{onFound: func(string) { cancel() }}
	engine := New(resolver, Options{Workers: 2, Timeout: time.Minute, Reporter: reporter})

	candidates := []string{"www"}
	for i := 0; i < 100; i++ {
		candidates = append(candidates, fmt.Sprintf("blocked%d", i))
	}

	now := time.Now()
	result := engine.Run(ctx, "example.com", candidates)

	require.Less(t, time.Since(now), 5*time.Second)
	require.True(t, result.Interrupted)
	require.Equal(t, []string{"www.example.com"}, result.Subdomains)
	require.Less(t, result.Checked, result.Total)
	require.Equal(t, 101, result.Total)
	require.Equal(t, result.Checked, reporter.last()[0])
}

func TestEngineRunCancelledAfterCompletion(t *testing.T) {
	resolver := newMockResolver(true, map[string]string{"www.example.com": "10.0.0.1"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reporter := &recordingReporter{onProgress: func(checked, total int) {
		if checked == total {
			cancel()
		}
	}}
	engine := New(resolver, Options{Workers: 4, Reporter: reporter})

	result := engine.Run(ctx, "example.com", []string{"www", "api", "mail"})
	require.Error(t, ctx.Err())
	require.False(t, result.Interrupted)
	require.Equal(t, 3, result.Checked)
	require.Equal(t, []string{"www.example.com"}, result.Subdomains)
}
