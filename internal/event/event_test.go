package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{want: "DestinationReady", typ: DestinationReady},
		{want: "ScanStarted", typ: ScanStarted},
		{want: "SourceMissing", typ: SourceMissing},
		{want: "ScanComplete", typ: ScanComplete},
		{want: "FileCopied", typ: FileCopied},
		{want: "FileFailed", typ: FileFailed},
		{want: "NothingToCopy", typ: NothingToCopy},
		{want: "CopyComplete", typ: CopyComplete},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Type(999).String())
	assert.Equal(t, "Unknown", Type(0).String())
}

func TestEmitStampsTime(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ch, Event{Type: FileFailed, Path: "a.py", Error: errors.New("boom")})

	ev := <-ch
	assert.Equal(t, FileFailed, ev.Type)
	assert.Equal(t, "a.py", ev.Path)
	require.Error(t, ev.Error)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestEmitNilChannel(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(nil, Event{Type: ScanStarted})
	})
}
