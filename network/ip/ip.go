package ip

import "sip-stack/network"

type Addr interface {
	network.Addr

	Version() uint
}
