package transport

import "github.com/pkg/errors"

var (
	ErrUnknownType      = errors.New("unknown transport type")
	ErrAddrAlreadyInUse = errors.New("address already in use")
	ErrNoPortAvailable  = errors.New("no ephemeral port available")
)
