package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := []struct {
		host   string
		remote bool
	}{
		{"", false},
		{"localhost", false},
		{" LOCALHOST ", false},
		{"127.0.0.1", false},
		{"127.0.0.5", false},
		{"::1", false},
		{"db.local", false},
		{"10.0.0.12", true},
		{"db.internal.example.com", true},
		{"postgres", true},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.remote, isLikelyRemoteHost(tt.host))
		})
	}
}

func TestGuardRemoteHost(t *testing.T) {
	assert.NoError(t, guardRemoteHost("localhost", false))
	assert.NoError(t, guardRemoteHost("db.example.com", true))

	err := guardRemoteHost("db.example.com", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-allow-remote")
	assert.Equal(t, 2, exitCode(err))
}

func TestParseSeedFlags(t *testing.T) {
	opts, err := parseSeedFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, opts.Timeout)
	assert.False(t, opts.AllowRemote)

	opts, err = parseSeedFlags([]string{"-timeout", "10s", "-allow-remote"})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, opts.Timeout)
	assert.True(t, opts.AllowRemote)

	_, err = parseSeedFlags([]string{"-timeout", "0s"})
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}
