//go:build !noipv6

package tuple

// IPv6Enabled reports whether this build supports IPv6 endpoints.
// Build with the noipv6 tag to disable it.
const IPv6Enabled = true

func mustIPv6() {}
