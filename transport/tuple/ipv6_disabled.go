//go:build noipv6

package tuple

const IPv6Enabled = false

func mustIPv6() {
	panic("tuple: IPv6 support is not compiled in")
}
