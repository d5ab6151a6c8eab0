package app

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kestfor/hexspeak/internal/bench"
	"github.com/kestfor/hexspeak/internal/search"
	"github.com/kestfor/hexspeak/internal/services/tasks/taskservice"
	"github.com/kestfor/hexspeak/internal/wordtable"
	"github.com/kestfor/hexspeak/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dictionary = "testdata/words.txt"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hexspeak.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default target",
			args: []string{"count", "--dict", dictionary},
			want: "Total: 342\n",
		},
		{
			name: "explicit target",
			args: []string{"count", "--dict", dictionary, "4"},
			want: "Total: 19\n",
		},
		{
			name: "zero target",
			args: []string{"count", "--dict", dictionary, "0"},
			want: "Total: 0\n",
		},
		{
			name: "alphabet without words",
			args: []string{"count", "--dict", dictionary, "1", "abc"},
			want: "Total: 1\n",
		},
		{
			name: "frontier in parallel",
			args: []string{"count", "--dict", dictionary, "--strategy", "frontier", "--workers", "3", "7"},
			want: "Total: 156\n",
		},
		{
			name: "alphabet flag",
			args: []string{"count", "--dict", dictionary, "--alphabet", "abcdef", "3"},
			want: "Total: 3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out, tt.want), out)
			assert.Contains(t, out, "Elapsed: ")
		})
	}
}

func TestCount_FromConfig(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: warn
search:
  dictionary: testdata/words.txt
  target_length: 4
  strategy: frontier
`)

	out, err := execute(t, "count", "-c", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Total: 19\n"), out)
}

func TestList(t *testing.T) {
	out, err := execute(t, "list", "--dict", dictionary, "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{"ace", "add", "bad", "oil", "lid"}, lines[:5])
	assert.Equal(t, "Total: 5", lines[5])
}

func TestList_Parallel(t *testing.T) {
	sequential, err := execute(t, "list", "--dict", dictionary, "6")
	require.NoError(t, err)

	parallel, err := execute(t, "list", "--dict", dictionary, "--workers", "4", "6")
	require.NoError(t, err)

	phrases := func(out string) []string {
		lines := strings.Split(out, "\n")
		return lines[:len(lines)-3]
	}
	assert.Equal(t, phrases(sequential), phrases(parallel))
	assert.Len(t, phrases(parallel), 23)
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "--dict", dictionary, "--runs", "3", "5")
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, "18 in "))
	for _, label := range []string{"Average value", "Sample stddev", "Median", "Overall", "Memory"} {
		assert.Contains(t, out, label)
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "negative target",
			args:    []string{"count", "--dict", dictionary, "--", "-1"},
			wantErr: search.ErrInvalidInput,
		},
		{
			name:    "target is not a number",
			args:    []string{"list", "--dict", dictionary, "eight"},
			wantErr: search.ErrInvalidInput,
		},
		{
			name:    "malformed alphabet",
			args:    []string{"count", "--dict", dictionary, "4", "f-a"},
			wantErr: wordtable.ErrInvalidAlphabet,
		},
		{
			name:    "malformed alphabet flag",
			args:    []string{"count", "--dict", dictionary, "--alphabet", "[:nope:]"},
			wantErr: wordtable.ErrInvalidInput,
		},
		{
			name:    "unknown strategy",
			args:    []string{"count", "--dict", dictionary, "--strategy", "dfs"},
			wantErr: validation.ErrInvalid,
		},
		{
			name:    "no runs",
			args:    []string{"bench", "--dict", dictionary, "--runs", "0"},
			wantErr: bench.ErrInvalidRuns,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotContains(t, out, "Total:")
		})
	}
}

func TestMissingDictionary(t *testing.T) {
	_, err := execute(t, "count", "--dict", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemote(t *testing.T) {
	words, err := wordtable.LoadWords(dictionary)
	require.NoError(t, err)

	service := taskservice.NewService(&taskservice.Config{MaxParallel: 8}, words)
	server := httptest.NewServer(newRouter(service))
	t.Cleanup(func() {
		server.Close()
		service.Close()
	})

	t.Run("count", func(t *testing.T) {
		out, err := execute(t, "count", "--server", server.URL, "--dict", "unused", "8")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Total: 342\n"), out)
	})

	t.Run("list", func(t *testing.T) {
		out, err := execute(t, "list", "--server", server.URL, "3", "abcdef01")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Equal(t, []string{"ace", "add", "bad", "oil", "lid", "Total: 5"}, lines[:6])
	})

	t.Run("strategy and workers forwarded", func(t *testing.T) {
		out, err := execute(t, "count", "--server", server.URL, "--strategy", "frontier", "--workers", "2", "7")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Total: 156\n"), out)
	})

	t.Run("split over two services", func(t *testing.T) {
		other := httptest.NewServer(newRouter(service))
		defer other.Close()

		local, err := execute(t, "list", "--dict", dictionary, "7")
		require.NoError(t, err)

		split, err := execute(t, "list", "--server", server.URL, "--server", other.URL, "7")
		require.NoError(t, err)

		phrases := func(out string) []string {
			lines := strings.Split(out, "\n")
			return lines[:len(lines)-3]
		}
		assert.Equal(t, phrases(local), phrases(split))
		assert.Len(t, phrases(split), 156)
	})

	t.Run("server unreachable", func(t *testing.T) {
		_, err := execute(t, "count", "--server", "http://127.0.0.1:1", "3")
		assert.Error(t, err)
	})
}
