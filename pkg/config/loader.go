package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type cacheEntry struct {
	once  sync.Once
	value any
	err   error
}

var (
	cache           sync.Map // reflect.Type -> *cacheEntry
	dotenvLoaded    sync.Once
	dotenvFilenames = []string{".env"}
)

// LoadEnv loads the given env files into the process environment without
// overriding variables that are already set. Missing files are an error here,
// unlike the implicit .env load performed by Load.
func LoadEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		return errors.Join(ErrEnvFile, err)
	}
	return nil
}

// Load parses environment variables into v. The first successful or failed
// parse for a given type T is cached and replayed on subsequent calls.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvLoaded.Do(func() {
		// A missing .env file is the normal case outside local development.
		_ = godotenv.Load(dotenvFilenames...)
	})

	key := reflect.TypeFor[T]()
	raw, _ := cache.LoadOrStore(key, &cacheEntry{})
	entry := raw.(*cacheEntry)

	entry.once.Do(func() {
		var cfg T
		if err := env.Parse(&cfg); err != nil {
			entry.err = errors.Join(ErrParsingConfig, err)
			return
		}
		entry.value = cfg
	})

	if entry.err != nil {
		return entry.err
	}
	*v = entry.value.(T)
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
