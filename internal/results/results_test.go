package results

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbook/internal/store"
)

// memKV is an in-memory store.KVRepo.
type memKV struct {
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Update(_ context.Context, key string, fn func(string) (string, error)) error {
	next, err := fn(m.data[key])
	if err != nil {
		return err
	}
	m.data[key] = next
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func names(t *testing.T, s *Store) []string {
	t.Helper()
	entries, err := s.List(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for i, e := range entries {
		assert.Equal(t, i, e.Index)
		out = append(out, e.Name)
	}
	return out
}

func seed(t *testing.T, s *Store, ns ...string) {
	t.Helper()
	for _, n := range ns {
		require.NoError(t, s.Append(context.Background(), Record{Name: n, Gender: "Female", Grade: "Grade 3", Score: len(n)}))
	}
}

func TestAppendAndList(t *testing.T) {
	s := New(newMemKV())
	assert.Empty(t, names(t, s))

	seed(t, s, "A", "B", "C")
	assert.Equal(t, []string{"A", "B", "C"}, names(t, s))

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestDeleteAt(t *testing.T) {
	ctx := context.Background()
	s := New(newMemKV())
	seed(t, s, "A", "B", "C")

	ok, err := s.DeleteAt(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"A", "C"}, names(t, s))

	ok, err = s.DeleteAt(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"A", "C"}, names(t, s))

	ok, err = s.DeleteAt(ctx, -1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONLayout(t *testing.T) {
	kv := newMemKV()
	s := New(kv)
	require.NoError(t, s.Append(context.Background(), Record{Name: "Ana", Gender: "Female", Grade: "Grade 8", Score: 17}))

	assert.JSONEq(t,
		`[{"name":"Ana","gender":"Female","grade":"Grade 8","score":17}]`,
		kv.data[Key])
}

func TestView_UnknownGrade(t *testing.T) {
	kv := newMemKV()
	kv.data[Key] = `[{"name":"Old","gender":"Male","score":4}]`
	s := New(kv)

	rows, err := s.View(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, UnknownGrade, rows[0].Grade)
	assert.Equal(t, "4", rows[0].Score)
}

func TestCorruptValueReadsEmptyButBlocksWrites(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{`{not json`, `{"name":"A"}`} {
		kv := newMemKV()
		kv.data[Key] = raw
		s := New(kv)

		assert.Empty(t, names(t, s))

		err := s.Append(ctx, Record{Name: "B"})
		assert.ErrorIs(t, err, ErrCorrupt)
		_, err = s.DeleteAt(ctx, 0)
		assert.ErrorIs(t, err, ErrCorrupt)
		assert.Equal(t, raw, kv.data[Key], "corrupt value must be kept")

		require.NoError(t, s.Clear(ctx))
		seed(t, s, "A")
		assert.Equal(t, []string{"A"}, names(t, s))
	}
}

func TestClear(t *testing.T) {
	s := New(newMemKV())
	seed(t, s, "A", "B")
	require.NoError(t, s.Clear(context.Background()))
	assert.Empty(t, names(t, s))
}

func TestWithSQLiteStore(t *testing.T) {
	st, err := store.Open("file:results_sqlite?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s := New(st.KV())
	seed(t, s, "A", "B", "C")

	ok, err := s.DeleteAt(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"B", "C"}, names(t, s))
}
