package tuple

import (
	"log/slog"
	"sip-stack/transport"
	"strconv"
	"strings"
)

// Resolver describes the transport behind an id. It reports false once the
// transport is gone.
type Resolver interface {
	Describe(id TransportID) (string, bool)
}

// String renders the tuple for logs:
//
//	[ V4 192.168.1.5:5060 TCP received on: transport 5b1f... connectionId=0 ]
func (t Tuple) String() string { return t.render(nil) }

// Describe renders like String, naming the attached transport through r.
func (t Tuple) Describe(r Resolver) string { return t.render(r) }

func (t Tuple) render(r Resolver) string {
	var sb strings.Builder

	sb.WriteString("[ ")
	sb.WriteString(t.family.String())
	sb.WriteByte(' ')
	sb.WriteString(t.Addr().String())
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(uint64(t.Port()), 10))
	sb.WriteByte(' ')
	sb.WriteString(transport.ToData(t.typ))

	if !t.transport.IsZero() {
		sb.WriteString(" received on: ")
		sb.WriteString(t.describeTransport(r))
	}

	sb.WriteString(" connectionId=")
	sb.WriteString(strconv.FormatUint(uint64(t.connectionID), 10))
	sb.WriteString(" ]")

	return sb.String()
}

func (t Tuple) describeTransport(r Resolver) string {
	if r == nil {
		return "transport " + t.transport.String()
	}
	desc, ok := r.Describe(t.transport)
	if !ok {
		return "stale transport " + t.transport.String()
	}
	return desc
}

// LogValue implements slog.LogValuer.
func (t Tuple) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("family", t.family.String()),
		slog.String("addr", t.Addr().String()),
		slog.Int("port", int(t.Port())),
		slog.String("transport", t.typ.String()),
	}
	if t.targetDomain != "" {
		attrs = append(attrs, slog.String("domain", t.targetDomain))
	}
	if !t.transport.IsZero() {
		attrs = append(attrs, slog.String("transport_id", t.transport.String()))
	}
	if t.connectionID != 0 {
		attrs = append(attrs, slog.Uint64("connection_id", uint64(t.connectionID)))
	}
	return slog.GroupValue(attrs...)
}
