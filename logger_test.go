/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Production(t *testing.T) {
	var buf bytes.Buffer

	cfg := testConfig()
	logger := newLogger(cfg, &buf)

	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Info().Str("room", "ABC234").Msg("room created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "ABC234", line["room"])
	assert.Equal(t, "room created", line["message"])
}

func TestNewLogger_VerboseDevelopment(t *testing.T) {
	var buf bytes.Buffer

	cfg := testConfig()
	cfg.mode = modeDevelopment
	cfg.verbose = true

	logger := newLogger(cfg, &buf)
	logger.Debug().Msg("sweep finished")

	assert.Contains(t, buf.String(), "sweep finished")
	assert.False(t, json.Valid(buf.Bytes()))
}
