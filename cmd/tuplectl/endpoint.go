package main

import (
	ipv4 "sip-stack/network/ip/v4"
	"sip-stack/transport"
	"sip-stack/transport/tuple"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// parseEndpoint reads "<transport>/<address>/<port>[@domain]", for example
// "tls/10.0.0.1/5061@example.com" or "udp/::1/5060". An empty address
// selects the IPv4 wildcard.
func parseEndpoint(s string) (tuple.Tuple, error) {
	body, domain, _ := strings.Cut(s, "@")

	parts := strings.Split(body, "/")
	if len(parts) != 3 {
		return tuple.Tuple{}, errors.Errorf("endpoint %q: want <transport>/<address>/<port>", s)
	}

	var typ transport.Type
	if err := typ.UnmarshalText([]byte(parts[0])); err != nil {
		return tuple.Tuple{}, errors.Wrapf(err, "endpoint %q", s)
	}

	port, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil {
		return tuple.Tuple{}, errors.Wrapf(err, "endpoint %q: port", s)
	}

	if parts[1] == "" {
		return tuple.New("", uint16(port), true, typ, domain)
	}

	if !tuple.IPv6Enabled && !ipv4.IsAddr(parts[1]) {
		return tuple.Tuple{}, errors.Errorf("endpoint %q: ipv6 is not supported by this build", s)
	}

	tup, err := tuple.Parse(parts[1], uint16(port), typ, domain)
	if err != nil {
		return tuple.Tuple{}, errors.Wrapf(err, "endpoint %q", s)
	}
	return tup, nil
}

func parseEndpoints(args []string) ([]tuple.Tuple, error) {
	out := make([]tuple.Tuple, 0, len(args))
	for _, arg := range args {
		tup, err := parseEndpoint(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, tup)
	}
	return out, nil
}
