package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_flags(t *testing.T) {
	cmd := newRootCmd()
	f := cmd.Flags()

	wait, err := f.GetDuration("wait")
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, wait)

	immediate, err := f.GetBool("immediate")
	require.NoError(t, err)
	assert.False(t, immediate)

	paths, err := f.GetStringSlice("watch")
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, paths)

	require.NoError(t, f.Parse([]string{
		"--wait", "1s", "-i", "-p", "a", "--watch", "b",
	}))
	wait, _ = f.GetDuration("wait")
	assert.Equal(t, time.Second, wait)
	immediate, _ = f.GetBool("immediate")
	assert.True(t, immediate)
	paths, _ = f.GetStringSlice("watch")
	assert.Equal(t, []string{"a", "b"}, paths)
}

func TestRootCmd_errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing command",
			args:    []string{},
			wantErr: "requires at least 1 arg(s)",
		},
		{
			name:    "invalid log level",
			args:    []string{"--log-level", "loud", "--", "true"},
			wantErr: "invalid log level",
		},
		{
			name:    "negative wait",
			args:    []string{"--wait", "-1s", "--", "true"},
			wantErr: "debounce: invalid argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)

			err := cmd.ExecuteContext(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRootCmd_runUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--log-level", "error", "-p", t.TempDir(), "--", "true"})

	assert.NoError(t, cmd.ExecuteContext(ctx))
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}

func TestCommandAction(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	ev := fsnotify.Event{Name: "/src/main.go", Op: fsnotify.Write}

	action := commandAction([]string{
		"sh", "-c", `echo "$DEBOUNCE_EVENT_PATH $DEBOUNCE_EVENT_OP" > "$0"`, out,
	})
	require.NoError(t, action(context.Background(), ev))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "/src/main.go WRITE\n", string(b))

	err = commandAction([]string{"false"})(context.Background(), ev)
	assert.ErrorContains(t, err, "run false")
}
