// This file is part of sidekicknet.
//
// sidekicknet is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sidekicknet is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with sidekicknet.  If not, see <https://www.gnu.org/licenses/>.

package network

import (
	"context"
	"net"
	"sync"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/logger"
)

// Resolver resolves a host name to an address.
type Resolver interface {
	Resolve(ctx context.Context, host string) (string, error)
}

// lookup is the signature of net.Resolver.LookupHost.
type lookup func(ctx context.Context, host string) ([]string, error)

// NetResolver is a Resolver that uses the system resolver. Lookups are
// retried a bounded number of times and successful results are cached.
type NetResolver struct {
	perm     logger.Permission
	attempts int
	lookup   lookup

	crit  sync.Mutex
	cache map[string]string
}

// NewNetResolver is the preferred method of initialisation for the
// NetResolver type.
func NewNetResolver(perm logger.Permission, attempts int) *NetResolver {
	if attempts < 1 {
		attempts = 1
	}
	return &NetResolver{
		perm:     perm,
		attempts: attempts,
		lookup:   net.DefaultResolver.LookupHost,
		cache:    make(map[string]string),
	}
}

// Resolve implements the Resolver interface.
func (r *NetResolver) Resolve(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return host, nil
	}

	r.crit.Lock()
	addr, ok := r.cache[host]
	r.crit.Unlock()
	if ok {
		return addr, nil
	}

	var err error
	for i := 0; i < r.attempts; i++ {
		var addrs []string
		addrs, err = r.lookup(ctx, host)
		if err == nil && len(addrs) > 0 {
			logger.Logf(r.perm, "net [dns]", "resolved %s as %s", host, addrs[0])
			r.crit.Lock()
			r.cache[host] = addrs[0]
			r.crit.Unlock()
			return addrs[0], nil
		}
		logger.Logf(r.perm, "net [dns]", "cannot resolve %s (attempt %d)", host, i+1)
	}

	if err == nil {
		err = curated.Errorf("no addresses")
	}
	return "", curated.Errorf(ResolveError, host, err)
}

// Forget removes host from the cache.
func (r *NetResolver) Forget(host string) {
	r.crit.Lock()
	defer r.crit.Unlock()
	delete(r.cache, host)
}
