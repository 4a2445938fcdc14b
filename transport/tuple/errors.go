package tuple

import "github.com/pkg/errors"

var (
	ErrUnsupportedFamily = errors.New("unsupported address family")
	ErrShortSockaddr     = errors.New("socket address too short")
	ErrNoEndpoint        = errors.New("packet carries no transport endpoint")
)
