package transport

import (
	"sync"

	"github.com/pkg/errors"
)

// PortTable tracks the local ports bound per transport type.
// Explicit ports may be shared by several bindings (one per interface);
// ephemeral ports are only handed out when nothing holds them.
type PortTable struct {
	table map[portKey]uint // reference counts
	mu    sync.Mutex

	ephemeral  [2]uint16 // start, end
	rand       func() uint16
	maxRandTry uint
}

type portKey struct {
	typ  Type
	port uint16
}

type EphemeralPortOptions struct {
	Range  [2]uint16 // [start, end)
	Rand   func() uint16
	MaxTry uint
}

func (o EphemeralPortOptions) validate() error {
	if o.Range[0] == 0 {
		return errors.New("ephemeral range must not include port 0")
	}
	if o.Range[0] >= o.Range[1] {
		return errors.Errorf("end(%d) must be greater than start(%d)", o.Range[1], o.Range[0])
	}
	if o.Rand == nil {
		return errors.New("rand function must be provided")
	}
	return nil
}

func NewPortTable(opts EphemeralPortOptions) *PortTable {
	if err := opts.validate(); err != nil {
		panic(err)
	}

	return &PortTable{
		table:      make(map[portKey]uint),
		ephemeral:  opts.Range,
		rand:       opts.Rand,
		maxRandTry: opts.MaxTry,
	}
}

// Occupy reserves port for typ. A zero port selects a free ephemeral port.
// The returned release func is safe to call more than once.
func (p *PortTable) Occupy(typ Type, port uint16) (result uint16, release func(), err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if port == 0 {
		return p.occupyEphemeralLocked(typ)
	}

	return port, p.occupyLocked(portKey{typ: typ, port: port}), nil
}

// InUse reports whether any binding holds port for typ.
func (p *PortTable) InUse(typ Type, port uint16) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.table[portKey{typ: typ, port: port}] > 0
}

func (p *PortTable) occupyEphemeralLocked(typ Type) (uint16, func(), error) {
	for try := uint(0); try < p.maxRandTry; try++ {
		key := portKey{typ: typ, port: p.selectEphemeral()}

		if p.table[key] > 0 {
			continue
		}

		return key.port, p.occupyLocked(key), nil
	}

	return 0, nil, errors.Wrapf(ErrNoPortAvailable, "%s after %d tries", typ, p.maxRandTry)
}

func (p *PortTable) occupyLocked(key portKey) (release func()) {
	p.table[key]++

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()

			if p.table[key]--; p.table[key] == 0 {
				delete(p.table, key)
			}
		})
	}
}

func (p *PortTable) selectEphemeral() uint16 {
	gap := p.ephemeral[1] - p.ephemeral[0]
	return p.ephemeral[0] + (p.rand() % gap)
}
