// Package lock serializes mutations per natural key.
//
// Keys are namespaced by entity. When a call chain holds several keys they are
// taken level by level in the order order > product > supplier > inventory.
// Keys passed to one Hold call must share a level; Hold sorts them, so two chains
// never wait on each other in a cycle.
package lock

import (
	"context"
	"sort"
	"strconv"
)

type Locker interface {
	// Acquire blocks until key is held. It fails with a Conflict error when the key
	// stays busy and with Unavailable when ctx ends first.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type heldKey struct{}

// Hold acquires every key not already held by the calling chain. The returned
// context records the held keys so nested calls do not deadlock on themselves.
func Hold(ctx context.Context, l Locker, keys ...string) (context.Context, func(), error) {
	held, _ := ctx.Value(heldKey{}).(map[string]struct{})

	wanted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := held[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		wanted = append(wanted, k)
	}
	if len(wanted) == 0 {
		return ctx, func() {}, nil
	}
	sort.Strings(wanted)

	releases := make([]func(), 0, len(wanted))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, k := range wanted {
		release, err := l.Acquire(ctx, k)
		if err != nil {
			releaseAll()
			return ctx, func() {}, err
		}
		releases = append(releases, release)
	}

	next := make(map[string]struct{}, len(held)+len(wanted))
	for k := range held {
		next[k] = struct{}{}
	}
	for _, k := range wanted {
		next[k] = struct{}{}
	}
	return context.WithValue(ctx, heldKey{}, next), releaseAll, nil
}

func ProductKey(sku string) string {
	return "product:" + sku
}

func SupplierKey(id int64) string {
	return "supplier:" + strconv.FormatInt(id, 10)
}

func OrderKey(id int64) string {
	return "order:" + strconv.FormatInt(id, 10)
}

func InventoryKey(productID int64) string {
	return "inventory:" + strconv.FormatInt(productID, 10)
}
