package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/projectdiscovery/retryabledns"
)

var (
	// ErrNoRecords is returned when a query succeeds but carries no
	// answer of the requested type.
	ErrNoRecords = errors.New("no records found")
	// ErrNoNameservers is returned when a domain has no NS records.
	ErrNoNameservers = errors.New("no nameservers found")
)

// DefaultTimeout is used when a non-positive timeout is configured.
const DefaultTimeout = 3 * time.Second

// Resolver is the DNS capability shared by every enumeration stage.
type Resolver interface {
	// Resolve queries name for the given record type and returns the
	// answers of that type.
	Resolve(ctx context.Context, name string, qtype uint16) ([]dns.RR, error)
	// Nameservers returns the authoritative nameserver hostnames of domain.
	Nameservers(ctx context.Context, domain string) ([]string, error)
}

// Options contains configuration options for the resolver client
type Options struct {
	// Servers are the nameservers to query. When empty the system
	// resolvers are used.
	Servers []string
	// Timeout bounds every single query
	Timeout time.Duration
}

// Client is a Resolver backed by retryabledns.
type Client struct {
	servers []string
	timeout time.Duration
	dns     *retryabledns.Client
}

// New creates a new resolver client from the options.
func New(options Options) (*Client, error) {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	servers := make([]string, 0, len(options.Servers))
	for _, server := range options.Servers {
		normalized, err := NormalizeServer(server)
		if err != nil {
			return nil, err
		}
		servers = append(servers, normalized)
	}
	if len(servers) == 0 {
		servers = SystemServers()
	}

	// A single attempt per query: the timeout is the only resilience
	// mechanism, failed probes are not retried.
	client, err := retryabledns.NewWithOptions(retryabledns.Options{
		BaseResolvers: servers,
		MaxRetries:    1,
		Timeout:       timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create dns client: %w", err)
	}

	return &Client{
		servers: servers,
		timeout: timeout,
		dns:     client,
	}, nil
}

// Servers returns the nameservers used by the client in host:port form.
func (c *Client) Servers() []string {
	return append([]string(nil), c.servers...)
}

// Timeout returns the per-query timeout of the client.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

type reply struct {
	msg *dns.Msg
	err error
}

// Resolve queries name for qtype. A non NOERROR rcode is reported as
// an error carrying the rcode name, an empty answer as ErrNoRecords.
func (c *Client) Resolve(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)

	// retryabledns has no context support, the exchange is bounded by
	// the client timeout so the goroutine always terminates.
	replies := make(chan reply, 1)
	go func() {
		resp, err := c.dns.Do(msg)
		replies <- reply{msg: resp, err: err}
	}()

	var r reply
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-replies:
	}
	// retryabledns returns the reply together with an error for any
	// non NOERROR rcode, the rcode wins when a reply came back.
	if r.msg != nil && r.msg.Rcode != dns.RcodeSuccess {
		return nil, &RcodeError{Name: name, Type: qtype, Rcode: r.msg.Rcode}
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.msg == nil {
		return nil, ErrNoRecords
	}

	answers := make([]dns.RR, 0, len(r.msg.Answer))
	for _, rr := range r.msg.Answer {
		if rr.Header().Rrtype == qtype {
			answers = append(answers, rr)
		}
	}
	if len(answers) == 0 {
		return nil, ErrNoRecords
	}
	return answers, nil
}

// Nameservers lists the NS hostnames of domain without the trailing dot.
func (c *Client) Nameservers(ctx context.Context, domain string) ([]string, error) {
	return ListNameservers(ctx, c, domain)
}

// ListNameservers lists the NS hostnames of domain using any Resolver.
func ListNameservers(ctx context.Context, r Resolver, domain string) ([]string, error) {
	answers, err := r.Resolve(ctx, domain, dns.TypeNS)
	if errors.Is(err, ErrNoRecords) {
		return nil, ErrNoNameservers
	}
	if err != nil {
		return nil, err
	}

	nameservers := make([]string, 0, len(answers))
	for _, rr := range answers {
		if ns, ok := rr.(*dns.NS); ok {
			nameservers = append(nameservers, strings.TrimSuffix(ns.Ns, "."))
		}
	}
	if len(nameservers) == 0 {
		return nil, ErrNoNameservers
	}
	return nameservers, nil
}

// RcodeError is returned when a server answers with a non NOERROR rcode.
type RcodeError struct {
	Name  string
	Type  uint16
	Rcode int
}

func (e *RcodeError) Error() string {
	return fmt.Sprintf("%s %s: %s", dns.TypeToString[e.Type], e.Name, dns.RcodeToString[e.Rcode])
}

// IsNotFound reports whether err means the name simply does not exist
// or has no data, as opposed to a transport failure.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNoRecords) {
		return true
	}
	var rcodeErr *RcodeError
	return errors.As(err, &rcodeErr) && rcodeErr.Rcode == dns.RcodeNameError
}
