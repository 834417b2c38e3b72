/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"bytes"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const fallbackName = "Player"

// NamePool hands out display names for players who join without one.
type NamePool struct {
	names []string
}

func NewNamePool(names ...string) *NamePool {
	clean := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			clean = append(clean, n)
		}
	}
	if len(clean) == 0 {
		clean = []string{fallbackName}
	}
	return &NamePool{names: clean}
}

// LoadNames reads a {"names": [...]} document from path, or from fallback when
// path is empty. Any failure degrades to a single-name pool.
func LoadNames(path string, fallback []byte, logger zerolog.Logger) *NamePool {
	v := viper.New()
	v.SetConfigType("json")

	var err error
	if path != "" {
		v.SetConfigFile(path)
		err = v.ReadInConfig()
	} else {
		err = v.ReadConfig(bytes.NewReader(fallback))
	}
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("unable to load name pool, using fallback name")
		return NewNamePool()
	}

	pool := NewNamePool(v.GetStringSlice("names")...)
	logger.Debug().Int("count", pool.Len()).Msg("loaded name pool")
	return pool
}

func (p *NamePool) Len() int {
	return len(p.names)
}

// Random picks a name uniformly.
func (p *NamePool) Random() string {
	return p.names[rand.IntN(len(p.names))]
}
