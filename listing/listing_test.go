package listing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestKind(t *testing.T) {
	assert.Equal(t, "Leaf", Leaf.String())
	assert.Equal(t, "Branch", Branch.String())
	assert.Equal(t, "<invalid listing.Kind>", Kind(7).String())

	b, err := Branch.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "branch", string(b))

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("leaf")))
	assert.Equal(t, Leaf, k)
	assert.Error(t, k.UnmarshalText([]byte("dir")))

	_, err = Kind(7).MarshalText()
	assert.Error(t, err)
}

func TestEntry(t *testing.T) {
	assert.Equal(t, "L1", LeafOf(1).String())
	assert.Equal(t, "Ba/b", BranchOf("a/b").String())
	assert.True(t, BranchOf(1).IsBranch())
	assert.False(t, LeafOf(1).IsBranch())
}

func TestMap(t *testing.T) {
	ctx := context.Background()
	m := NewMap(map[int][]Entry[int]{
		0: {BranchOf(1), LeafOf(2)},
		1: {},
	})

	ch, err := m.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []Entry[int]{BranchOf(1), LeafOf(2)}, ch)

	// the caller owns the result
	ch[0] = LeafOf(9)
	ch, err = m.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, BranchOf(1), ch[0])

	ch, err = m.List(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, ch)
	assert.Empty(t, ch)

	_, err = m.List(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 2, m.Calls(0))
	assert.Equal(t, 1, m.Calls(3))
	assert.Equal(t, 4, m.TotalCalls())

	m.ResetCalls()
	assert.Equal(t, 0, m.TotalCalls())

	m.Set(3, LeafOf(4))
	ch, err = m.List(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []Entry[int]{LeafOf(4)}, ch)
}

func TestMap_ZeroValue(t *testing.T) {
	var m Map[string]
	_, err := m.List(context.Background(), ".")
	assert.ErrorIs(t, err, ErrNotFound)

	m.Set(".")
	ch, err := m.List(context.Background(), ".")
	assert.NoError(t, err)
	assert.Empty(t, ch)
}

func TestMap_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMap(map[int][]Entry[int]{0: {}}).List(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFS(t *testing.T) {
	fsys := fstest.MapFS{
		"a/b/c.txt": {Data: []byte("c")},
		"a/d.txt":   {Data: []byte("d")},
		"e":         {Mode: os.ModeDir},
		"f.txt":     {Data: []byte("f")},
	}
	l := FS{FS: fsys}
	ctx := context.Background()

	tests := []struct {
		id   string
		want []Entry[string]
		err  error
	}{
		{
			id:   ".",
			want: []Entry[string]{BranchOf("a"), BranchOf("e"), LeafOf("f.txt")},
		},
		{
			id:   "a",
			want: []Entry[string]{BranchOf("a/b"), LeafOf("a/d.txt")},
		},
		{
			id:   "a/b",
			want: []Entry[string]{LeafOf("a/b/c.txt")},
		},
		{
			id:   "e",
			want: []Entry[string]{},
		},
		{
			id:   "f.txt",
			want: []Entry[string]{},
		},
		{
			id:  "nope",
			err: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := l.List(ctx, tt.id)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFS_DirFS(t *testing.T) {
	dir := t.TempDir()
	name := gofakeit.LetterN(12)
	require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name, "x"), []byte(gofakeit.Sentence(3)), 0o644))

	l := FS{FS: os.DirFS(dir)}
	got, err := l.List(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, []Entry[string]{BranchOf(name)}, got)

	got, err = l.List(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, []Entry[string]{LeafOf(name + "/x")}, got)
}

// flaky fails the first n calls to List.
type flaky struct {
	n     int
	calls int
	err   error
	next  Lister[int]
}

func (f *flaky) List(ctx context.Context, id int) ([]Entry[int], error) {
	f.calls++
	if f.calls <= f.n {
		return nil, f.err
	}
	return f.next.List(ctx, id)
}

func TestRetry(t *testing.T) {
	boom := errors.New("boom")
	m := NewMap(map[int][]Entry[int]{0: {LeafOf(1)}})

	tests := []struct {
		name      string
		fails     int
		id        int
		wantErr   error
		wantCalls int
	}{
		{
			name:      "ok",
			wantCalls: 1,
		},
		{
			name:      "recovers",
			fails:     2,
			wantCalls: 3,
		},
		{
			name:      "gives up",
			fails:     10,
			wantErr:   boom,
			wantCalls: 4,
		},
		{
			name:      "not found is an answer",
			id:        7,
			wantErr:   ErrNotFound,
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &flaky{n: tt.fails, err: boom, next: m}
			r := NewRetry[int](f, 3, WithInterval(time.Millisecond, 2*time.Millisecond))

			got, err := r.List(context.Background(), tt.id)
			assert.Equal(t, tt.wantCalls, f.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []Entry[int]{LeafOf(1)}, got)
		})
	}
}

func TestRetry_Canceled(t *testing.T) {
	boom := errors.New("boom")
	f := &flaky{n: 100, err: boom}
	r := NewRetry[int](f, 100, WithInterval(time.Hour, time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.List(ctx, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, f.calls)
}

func TestRetry_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := &flaky{n: 1, err: errors.New("boom"), next: NewMap(map[int][]Entry[int]{0: {}})}
	r := NewRetry[int](f, 0,
		WithInterval(time.Millisecond, time.Millisecond),
		WithRetryLogger(zap.New(core)))

	_, err := r.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("list failed, retrying").Len())
}

func TestLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	boom := errors.New("boom")
	m := NewMap(map[int][]Entry[int]{0: {LeafOf(1), LeafOf(2)}})
	l := Logged[int]{
		Next: ListerFunc[int](func(ctx context.Context, id int) ([]Entry[int], error) {
			if id == 5 {
				return nil, boom
			}
			return m.List(ctx, id)
		}),
		Logger: zap.New(core),
	}
	ctx := context.Background()

	ch, err := l.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, ch, 2)

	_, err = l.List(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.List(ctx, 5)
	assert.ErrorIs(t, err, boom)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, "list", entries[0].Message)
	assert.Equal(t, int64(2), entries[0].ContextMap()["children"])
	assert.Equal(t, "list: not found", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)

	// no logger is fine
	_, err = Logged[int]{Next: m}.List(ctx, 0)
	assert.NoError(t, err)
}
