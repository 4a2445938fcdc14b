package network

// Addr is a network-layer address in its binary form.
type Addr interface {
	String() string
	Raw() []byte
}
