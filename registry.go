package charsetconv

import (
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

// typeInfo is what Convert needs to know about a target type.
type typeInfo struct {
	name string // type name reported in signals
}

var (
	registry   = make(map[reflect.Type]typeInfo)
	registryMu sync.RWMutex
)

// typeInfoFor returns cached metadata for T or builds it.
func typeInfoFor[T any]() typeInfo {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[typ]; ok {
		registryMu.RUnlock()
		return cached
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[typ]; ok {
		return cached
	}

	info := describeType[T](typ)
	registry[typ] = info
	return info
}

// describeType scans struct types with sentinel and names everything else
// by its reflect type.
func describeType[T any](typ reflect.Type) typeInfo {
	if typ.Kind() == reflect.Struct {
		if md := sentinel.Scan[T](); md.TypeName != "" {
			return typeInfo{name: md.TypeName}
		}
	}
	return typeInfo{name: typ.String()}
}

// Reset clears the type metadata cache.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]typeInfo)
}
