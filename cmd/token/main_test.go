package main

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_ExpireDefaultsToConfig(t *testing.T) {
	opts, err := parseFlags([]string{"-service", "docstore"}, 720*time.Hour, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, options{service: "docstore", expire: 720 * time.Hour}, opts)

	opts, err = parseFlags([]string{"-service", "ops", "-admin", "-expire", "1h"}, 720*time.Hour, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, options{service: "ops", admin: true, expire: time.Hour}, opts)
}

func TestParseFlags_Rejects(t *testing.T) {
	_, err := parseFlags(nil, time.Hour, io.Discard)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-service", "docstore", "-expire", "-1h"}, time.Hour, io.Discard)
	assert.ErrorContains(t, err, "must not be negative")
}
