package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreAppendAndIterate(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Append("10.0.0.1", "a.example.com"))
	require.NoError(t, st.Append("10.0.0.1", "b.example.com", "a.example.com"))
	require.NoError(t, st.Append("10.0.0.2", "c.example.com"))
	require.NoError(t, st.Append("10.0.0.3"))

	require.True(t, st.Exists("10.0.0.1"))
	require.False(t, st.Exists("10.0.0.3"))
	require.Equal(t, []string{"a.example.com", "b.example.com"}, st.GetHostnames("10.0.0.1"))

	counters := make(map[string]int)
	st.Iterate(func(ip string, hostnames []string, counter int) {
		require.Len(t, hostnames, counter)
		counters[ip] = counter
	})
	require.Equal(t, map[string]int{"10.0.0.1": 2, "10.0.0.2": 1}, counters)

	require.NoError(t, st.Delete("10.0.0.1"))
	require.False(t, st.Exists("10.0.0.1"))
	require.Nil(t, st.GetHostnames("10.0.0.1"))
}

func TestStoreCloseRemovesFiles(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	path := st.path
	_, err = os.Stat(path)
	require.NoError(t, err)

	st.Close()
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
