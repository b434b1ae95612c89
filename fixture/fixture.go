// Package fixture arranges generated and file-backed test data.
package fixture

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	scenario "github.com/pumped-fn/pumped-scenario"
)

var seed atomic.Int64

func init() {
	seed.Store(time.Now().UnixNano())
}

func nextSeed() int {
	return int(seed.Add(1))
}

// Any arranges an arbitrary value of T, generated from the shape of the type.
func Any[T any]() scenario.Arranged[T] {
	return From(rapid.Make[T]())
}

// Seeded arranges the value of T that the given seed always produces.
func Seeded[T any](s int) scenario.Arranged[T] {
	gen := rapid.Make[T]()
	return scenario.Produce(func(context.Context) (T, error) {
		return gen.Example(s), nil
	})
}

// Many arranges n arbitrary values of T.
func Many[T any](n int) scenario.Arranged[[]T] {
	return From(rapid.SliceOfN(rapid.Make[T](), n, n))
}

// From arranges a value drawn from gen with a fresh seed on every run.
func From[T any](gen *rapid.Generator[T]) scenario.Arranged[T] {
	return scenario.Produce(func(context.Context) (T, error) {
		return gen.Example(nextSeed()), nil
	})
}

// FromYAML arranges a T decoded from the YAML file at path.
func FromYAML[T any](path string) scenario.Arranged[T] {
	return scenario.Produce(func(context.Context) (T, error) {
		var v T
		raw, err := os.ReadFile(path)
		if err != nil {
			return v, errors.Wrapf(err, "reading fixture %s", path)
		}
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return v, errors.Wrapf(err, "decoding fixture %s", path)
		}
		return v, nil
	})
}

// UUID arranges a new random UUID.
func UUID() scenario.Arranged[uuid.UUID] {
	return scenario.Produce(func(context.Context) (uuid.UUID, error) {
		return uuid.New(), nil
	})
}
