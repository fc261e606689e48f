package resolver

import (
	"fmt"
	"net"

	"github.com/miekg/dns"
	fileutil "github.com/projectdiscovery/utils/file"
)

const resolvConf = "/etc/resolv.conf"

// fallbackResolvers are used when the system configuration
// cannot be read.
var fallbackResolvers = []string{
	"1.1.1.1:53",
	"1.0.0.1:53",
	"8.8.8.8:53",
	"8.8.4.4:53",
}

// SystemServers returns the nameservers configured on the host,
// falling back to well known public resolvers.
func SystemServers() []string {
	servers, err := serversFromFile(resolvConf)
	if err != nil || len(servers) == 0 {
		return append([]string(nil), fallbackResolvers...)
	}
	return servers
}

func serversFromFile(path string) ([]string, error) {
	if !fileutil.FileExists(path) {
		return nil, fmt.Errorf("%s does not exist", path)
	}
	config, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	servers := make([]string, 0, len(config.Servers))
	for _, server := range config.Servers {
		servers = append(servers, net.JoinHostPort(server, config.Port))
	}
	return servers, nil
}

// NormalizeServer validates a nameserver given as an IP address, with
// an optional port, and returns it in host:port form.
func NormalizeServer(server string) (string, error) {
	if ip := net.ParseIP(server); ip != nil {
		return net.JoinHostPort(ip.String(), "53"), nil
	}

	host, port, err := net.SplitHostPort(server)
	if err != nil {
		return "", fmt.Errorf("invalid resolver address %q", server)
	}
	if net.ParseIP(host) == nil {
		return "", fmt.Errorf("invalid resolver address %q: not an ip", server)
	}
	if _, err := net.LookupPort("udp", port); err != nil {
		return "", fmt.Errorf("invalid resolver port %q", server)
	}
	return net.JoinHostPort(host, port), nil
}
