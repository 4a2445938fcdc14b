package tuple

import (
	"sip-stack/network/ip"
	ipv4 "sip-stack/network/ip/v4"
	ipv6 "sip-stack/network/ip/v6"
	"sip-stack/transport"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
)

// FromPacket extracts the source and destination endpoints of a decoded
// packet. Only TCP, UDP and SCTP carry ports that gopacket decodes.
func FromPacket(pkt gopacket.Packet) (src, dst Tuple, err error) {
	var (
		proto            ip.NextProto
		srcPort, dstPort uint16
	)

	if tcp, ok := pkt.Layer(layers.LayerTypeTCP).(*layers.TCP); ok {
		proto, srcPort, dstPort = ip.NextProtoTCP, uint16(tcp.SrcPort), uint16(tcp.DstPort)
	} else if udp, ok := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP); ok {
		proto, srcPort, dstPort = ip.NextProtoUDP, uint16(udp.SrcPort), uint16(udp.DstPort)
	} else if sctp, ok := pkt.Layer(layers.LayerTypeSCTP).(*layers.SCTP); ok {
		proto, srcPort, dstPort = ip.NextProtoSCTP, uint16(sctp.SrcPort), uint16(sctp.DstPort)
	} else {
		return Tuple{}, Tuple{}, errors.Wrap(ErrNoEndpoint, "no transport layer")
	}

	typ := transport.FromNextProto(proto)

	switch network := pkt.NetworkLayer().(type) {
	case *layers.IPv4:
		var s, d ipv4.Addr
		copy(s[:], network.SrcIP.To4())
		copy(d[:], network.DstIP.To4())
		return FromV4(s, srcPort, typ, ""), FromV4(d, dstPort, typ, ""), nil
	case *layers.IPv6:
		if !IPv6Enabled {
			return Tuple{}, Tuple{}, errors.Wrap(ErrUnsupportedFamily, "ipv6 is disabled")
		}
		var s, d ipv6.Addr
		copy(s[:], network.SrcIP.To16())
		copy(d[:], network.DstIP.To16())
		return FromV6(s, srcPort, typ, ""), FromV6(d, dstPort, typ, ""), nil
	}
	return Tuple{}, Tuple{}, errors.Wrap(ErrNoEndpoint, "no ip layer")
}
