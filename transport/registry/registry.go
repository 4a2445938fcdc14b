// Package registry keeps the transports bound by the stack and selects one
// for an endpoint. Every transport is indexed by its interface tuple under
// each comparison policy, so lookups can ask for an exact binding or for any
// binding that matches on fewer fields.
package registry

import (
	"log/slog"
	"sip-stack/transport"
	"sip-stack/transport/tuple"
	"slices"
	"sync"

	"github.com/google/btree"
	"github.com/pkg/errors"
)

var (
	ErrTransportNotFound = errors.New("transport not found")
	ErrNoTransport       = errors.New("no transport matches")
)

const btreeDegree = 8

// Transport describes a registered transport. Interface carries ID as its
// transport reference.
type Transport struct {
	ID        tuple.TransportID
	Name      string
	Interface tuple.Tuple
}

func (t Transport) String() string {
	return t.Interface.Type().String() + " transport " + t.Name
}

// bucket holds every transport whose interface is equivalent to key under
// the policy of the tree it lives in, in registration order.
type bucket struct {
	key tuple.Tuple
	ids []tuple.TransportID
}

type entry struct {
	transport Transport
	release   func()
}

type Registry struct {
	mu         sync.RWMutex
	transports map[tuple.TransportID]*entry
	indexes    [len(tuple.Policies)]*btree.BTreeG[*bucket]

	ports  *transport.PortTable
	logger *slog.Logger
}

var _ tuple.Resolver = (*Registry)(nil)

func New(logger *slog.Logger, ports *transport.PortTable) *Registry {
	if ports == nil {
		panic("registry: port table must be provided")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := &Registry{
		transports: make(map[tuple.TransportID]*entry),
		ports:      ports,
		logger:     logger,
	}
	for _, p := range tuple.Policies {
		r.indexes[p] = btree.NewG[*bucket](btreeDegree, func(a, b *bucket) bool {
			return p.Less(a.key, b.key)
		})
	}

	return r
}

// Add binds a transport on iface. A zero port is replaced by a free
// ephemeral port for the transport type.
func (r *Registry) Add(name string, iface tuple.Tuple) (Transport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if iface.Type() == transport.Unknown {
		return Transport{}, errors.Wrapf(transport.ErrUnknownType, "binding %s", name)
	}
	if iface.Port() != 0 && r.indexes[tuple.Exact].Has(&bucket{key: iface}) {
		return Transport{}, errors.Wrapf(transport.ErrAddrAlreadyInUse, "binding %s on %s", name, iface)
	}

	port, release, err := r.ports.Occupy(iface.Type(), iface.Port())
	if err != nil {
		return Transport{}, errors.Wrapf(err, "binding %s", name)
	}
	iface.SetPort(port)

	id := tuple.NewTransportID()
	t := Transport{ID: id, Name: name, Interface: iface.WithTransport(id)}

	r.transports[id] = &entry{transport: t, release: release}
	for _, p := range tuple.Policies {
		r.insertLocked(p, t)
	}

	r.logger.Info("transport added", "name", name, "interface", t.Interface)

	return t, nil
}

// Remove unbinds the transport and frees its port.
func (r *Registry) Remove(id tuple.TransportID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.transports[id]
	if !ok {
		return errors.Wrapf(ErrTransportNotFound, "removing %s", id)
	}

	for _, p := range tuple.Policies {
		r.removeLocked(p, e.transport)
	}
	delete(r.transports, id)
	e.release()

	r.logger.Info("transport removed", "name", e.transport.Name, "interface", e.transport.Interface)

	return nil
}

// Get returns the live transport with the given id.
func (r *Registry) Get(id tuple.TransportID) (Transport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.transports[id]
	if !ok {
		return Transport{}, false
	}
	return e.transport, true
}

// Describe implements tuple.Resolver.
func (r *Registry) Describe(id tuple.TransportID) (string, bool) {
	t, ok := r.Get(id)
	if !ok {
		return "", false
	}
	return t.String(), true
}

// Find returns the earliest registered transport whose interface is
// equivalent to q under p.
func (r *Registry) Find(p tuple.Policy, q tuple.Tuple) (Transport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.findLocked(p, q)
}

func (r *Registry) FindExact(q tuple.Tuple) (Transport, bool) { return r.Find(tuple.Exact, q) }

func (r *Registry) FindAnyInterface(q tuple.Tuple) (Transport, bool) {
	return r.Find(tuple.AnyInterface, q)
}

func (r *Registry) FindAnyPort(q tuple.Tuple) (Transport, bool) { return r.Find(tuple.AnyPort, q) }

func (r *Registry) FindAnyPortAnyInterface(q tuple.Tuple) (Transport, bool) {
	return r.Find(tuple.AnyPortAnyInterface, q)
}

// Select picks the transport to use for dest. A live transport reference on
// dest wins; otherwise the policies are tried from the most to the least
// specific.
func (r *Registry) Select(dest tuple.Tuple) (Transport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id := dest.Transport(); !id.IsZero() {
		if e, ok := r.transports[id]; ok {
			return e.transport, nil
		}
		r.logger.Debug("ignoring stale transport reference", "dest", dest)
	}

	for _, p := range tuple.Policies {
		if t, ok := r.findLocked(p, dest); ok {
			r.logger.Debug("transport selected", "dest", dest, "policy", p.String(), "name", t.Name)
			return t, nil
		}
	}

	return Transport{}, errors.Wrapf(ErrNoTransport, "for %s", dest)
}

// List returns the registered transports in exact order.
func (r *Registry) List() []Transport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Transport, 0, len(r.transports))
	r.indexes[tuple.Exact].Ascend(func(b *bucket) bool {
		for _, id := range b.ids {
			out = append(out, r.transports[id].transport)
		}
		return true
	})

	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.transports)
}

func (r *Registry) findLocked(p tuple.Policy, q tuple.Tuple) (Transport, bool) {
	b, ok := r.indexes[p].Get(&bucket{key: q})
	if !ok {
		return Transport{}, false
	}
	return r.transports[b.ids[0]].transport, true
}

func (r *Registry) insertLocked(p tuple.Policy, t Transport) {
	index := r.indexes[p]

	b, ok := index.Get(&bucket{key: t.Interface})
	if !ok {
		b = &bucket{key: t.Interface}
		index.ReplaceOrInsert(b)
	}
	b.ids = append(b.ids, t.ID)
}

func (r *Registry) removeLocked(p tuple.Policy, t Transport) {
	index := r.indexes[p]

	b, ok := index.Get(&bucket{key: t.Interface})
	if !ok {
		return
	}

	b.ids = slices.DeleteFunc(b.ids, func(id tuple.TransportID) bool { return id == t.ID })
	if len(b.ids) == 0 {
		index.Delete(b)
	}
}
