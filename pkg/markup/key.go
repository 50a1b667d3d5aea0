package markup

import (
	"fmt"
	"strings"
)

// DefaultNamespace is used for keys written without a namespace.
const DefaultNamespace = "minecraft"

// Key is a namespaced resource key such as minecraft:uniform.
type Key struct {
	Namespace string
	Value     string
}

// NewKey validates a namespace and value. An empty namespace selects
// DefaultNamespace.
func NewKey(namespace, value string) (Key, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if !validKeyPart(namespace, false) {
		return Key{}, fmt.Errorf("invalid key namespace %q", namespace)
	}
	if value == "" || !validKeyPart(value, true) {
		return Key{}, fmt.Errorf("invalid key value %q", value)
	}
	return Key{Namespace: namespace, Value: value}, nil
}

// ParseKey parses "namespace:value" or "value".
func ParseKey(s string) (Key, error) {
	if ns, value, ok := strings.Cut(s, ":"); ok {
		return NewKey(ns, value)
	}
	return NewKey("", s)
}

func (k Key) String() string {
	return k.Namespace + ":" + k.Value
}

// MarshalText encodes the key as namespace:value.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func validKeyPart(s string, allowSlash bool) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-', c == '.':
		case c == '/' && allowSlash:
		default:
			return false
		}
	}
	return true
}
