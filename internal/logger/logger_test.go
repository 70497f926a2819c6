package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
}

func TestLogWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "out.txt")
	l := NewAt(path)
	l.now = fixedClock

	l.Log("loaded scene")
	l.Warnf("layer %q skipped", "parks")
	l.Errorf("boom: %v", 3)

	want := []string{
		"[2024-05-01 12:30:00] loaded scene",
		`[2024-05-01 12:30:00] WARN layer "parks" skipped`,
		"[2024-05-01 12:30:00] ERROR boom: 3",
	}
	assert.Equal(t, want, l.Lines())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(want, "\n")+"\n", string(data))
}

func TestLinesBounded(t *testing.T) {
	l := NewAt("")
	for i := 0; i < MaxLines+25; i++ {
		l.Infof("line %d", i)
	}
	lines := l.Lines()
	require.Len(t, lines, MaxLines)
	assert.True(t, strings.HasSuffix(lines[0], "line 25"))
	assert.True(t, strings.HasSuffix(lines[MaxLines-1], fmt.Sprintf("line %d", MaxLines+24)))
}

func TestTail(t *testing.T) {
	l := NewAt("")
	assert.Nil(t, l.Tail(3))
	l.Log("a")
	l.Log("b")
	l.Log("c")
	tail := l.Tail(2)
	require.Len(t, tail, 2)
	assert.True(t, strings.HasSuffix(tail[0], "b"))
	assert.Len(t, l.Tail(10), 3)
}
