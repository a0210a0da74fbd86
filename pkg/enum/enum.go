package enum

import (
	"fmt"
	"reflect"
	"strings"
)

var enumManager = map[string]any{}

type enum[T ~string] struct {
	toEnum map[string]T
}

// New registers value as a member of its enum type and returns it, so enum
// members can be declared as package variables.
func New[T ~string](value T) T {
	name := reflect.TypeOf(value).String()
	if _, ok := enumManager[name]; !ok {
		enumManager[name] = enum[T]{toEnum: make(map[string]T)}
	}

	enumManager[name].(enum[T]).toEnum[string(value)] = value
	return value
}

func ToEnum[T ~string](s string) (T, error) {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).String()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// ToEnumFold is the case-insensitive version of ToEnum. Request parameters
// like "erc20" resolve to the member "ERC20".
func ToEnumFold[T ~string](s string) (T, error) {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).String()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	for k, v := range e.(enum[T]).toEnum {
		if strings.EqualFold(k, s) {
			return v, nil
		}
	}

	return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
}
