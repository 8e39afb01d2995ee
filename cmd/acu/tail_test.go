package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logacu/acu-go/pkg/acu"
	"github.com/logacu/acu-go/pkg/grok"
)

func TestTailLoop_WritesUntilClosed(t *testing.T) {
	records := make(chan acu.Record, 2)
	errs := make(chan error, 1)
	records <- acu.Record{Pattern: "p", Fields: map[string]any{"a": int64(1)}}
	records <- acu.Record{Pattern: "p", Fields: map[string]any{"a": int64(2)}}
	errs <- &acu.ParseError{Line: "x", Err: assert.AnError}
	close(errs)
	close(records)

	var buf bytes.Buffer
	w, err := NewRecordWriter("pretty", &buf)
	require.NoError(t, err)

	require.NoError(t, tailLoop(context.Background(), records, errs, w, testLogger))
	assert.Equal(t, "[p] a=1\n[p] a=2\n", buf.String())
}

func TestTailLoop_ReturnsWatchError(t *testing.T) {
	records := make(chan acu.Record)
	errs := make(chan error, 1)
	errs <- &acu.WatchError{Op: acu.WatchOpTail, Path: "/x.log", Err: os.ErrNotExist}
	close(errs)
	close(records)

	w, err := NewRecordWriter("jsonl", &bytes.Buffer{})
	require.NoError(t, err)

	err = tailLoop(context.Background(), records, errs, w, testLogger)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTailLoop_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w, err := NewRecordWriter("jsonl", &bytes.Buffer{})
	require.NoError(t, err)
	assert.NoError(t, tailLoop(ctx, make(chan acu.Record), make(chan error), w, testLogger))
}

func TestTailLoop_FromWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("GET /a\nPOST /b\n"), 0o644))

	p, err := acu.NewGrokParser(grok.MustNew(), `%{WORD:method} %{URIPATH:path}`, acu.WithName("req"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	records, errs, err := acu.Watch(ctx,
		acu.WithFile(path),
		acu.WithParser(p),
		acu.WithReplayFromStart(),
		acu.WithPolling(true),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := NewRecordWriter("pretty", &buf)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- tailLoop(ctx, records, errs, w, testLogger) }()

	time.Sleep(500 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, "[req] method=GET path=/a\n[req] method=POST path=/b\n", buf.String())
}
