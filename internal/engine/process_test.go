package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/bibtidy/internal/abbrev"
	"github.com/danieljhkim/bibtidy/internal/clock"
	"github.com/danieljhkim/bibtidy/internal/config"
	"github.com/danieljhkim/bibtidy/internal/fsops"
	"github.com/danieljhkim/bibtidy/internal/hash"
)

const sampleBib = `@article{a,
  title = {On Things},
  journal = {Journal of Applied Physics},
  url = {http://x},
  doi = {10.1/x}
}
@article{b,
  journal = {Physical Review Letters},
  doi = {10.1/y}
}
`

const sampleTable = `Journal of Applied Physics = J. Appl. Phys.
Physical Review Letters = Phys. Rev. Lett.
NATURE = Nature
`

type testEnv struct {
	dir   string
	input string
	table string
	eng   *Engine
	clock *clock.FakeClock
}

func newTestEnv(t *testing.T, bib, table string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:   dir,
		input: filepath.Join(dir, "refs.bib"),
		table: filepath.Join(dir, config.DefaultTableName),
	}
	require.NoError(t, os.WriteFile(env.input, []byte(bib), 0600))
	if table != "" {
		require.NoError(t, os.WriteFile(env.table, []byte(table), 0644))
	}

	env.clock = clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	env.clock.Step = 10 * time.Millisecond
	settings := config.Settings{
		TablePath:      env.table,
		OutputPrefix:   config.DefaultOutputPrefix,
		Abbreviate:     true,
		CleanConflicts: true,
	}
	env.eng = New(fsops.NewRealFS(), hash.NewSHA256Hasher(), env.clock, abbrev.NewLoader(nil), settings, nil)
	return env
}

func (env *testEnv) request() *ProcessRequest {
	return &ProcessRequest{InputPath: env.input, Abbreviate: true, CleanConflicts: true}
}

func TestProcess_BothStages(t *testing.T) {
	env := newTestEnv(t, sampleBib, sampleTable)

	result, err := env.eng.Process(context.Background(), env.request())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.dir, "processed_refs.bib"), result.OutputPath)
	assert.True(t, result.Written)
	assert.True(t, result.Changed)
	assert.Equal(t, 2, result.Entries)
	assert.Equal(t, 1, result.ConflictsResolved)
	assert.Equal(t, 1, result.DOILinesRemoved)
	assert.Len(t, result.Replacements, 2)
	assert.Equal(t, 2, result.Occurrences)
	assert.False(t, result.TableUnavailable)
	require.NotNil(t, result.Table)
	assert.Equal(t, 2, result.Table.Pairs)
	assert.Equal(t, 1, result.Table.Skipped)
	assert.Equal(t, 10*time.Millisecond, result.Duration)

	written, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	out := string(written)
	assert.Equal(t, result.Text, out)
	assert.Contains(t, out, "journal = {J. Appl. Phys.}")
	assert.Contains(t, out, "journal = {Phys. Rev. Lett.}")
	assert.NotContains(t, out, "10.1/x")
	assert.Contains(t, out, "doi = {10.1/y}")

	info, err := os.Stat(result.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	original, err := os.ReadFile(env.input)
	require.NoError(t, err)
	assert.Equal(t, sampleBib, string(original))
}

func TestProcess_ChangeLog(t *testing.T) {
	env := newTestEnv(t, sampleBib, sampleTable)

	result, err := env.eng.Process(context.Background(), env.request())
	require.NoError(t, err)

	var messages []string
	for _, entry := range result.Log {
		messages = append(messages, entry.Stage+": "+entry.Message)
	}
	assert.Equal(t, []string{
		"clean: removed doi from a (url present)",
		"clean: removed 1 redundant doi fields (url present)",
		"abbrev: {Journal of Applied Physics} -> {J. Appl. Phys.} (1 occurrences)",
		"abbrev: {Physical Review Letters} -> {Phys. Rev. Lett.} (1 occurrences)",
	}, messages)
}

func TestProcess_MissingTable(t *testing.T) {
	env := newTestEnv(t, sampleBib, "")

	result, err := env.eng.Process(context.Background(), env.request())
	require.NoError(t, err)

	assert.True(t, result.TableUnavailable)
	assert.Empty(t, result.Replacements)
	assert.Equal(t, 1, result.ConflictsResolved, "cleaning still runs without a table")

	last := result.Log[len(result.Log)-1]
	assert.Equal(t, StageAbbrev, last.Stage)
	assert.True(t, last.Error)
	assert.Contains(t, last.Message, "unavailable")
}

func TestProcess_NoMatchesIsNotUnavailable(t *testing.T) {
	env := newTestEnv(t, "@misc{m,\n  title = {Nothing}\n}", sampleTable)

	result, err := env.eng.Process(context.Background(), env.request())
	require.NoError(t, err)

	assert.False(t, result.TableUnavailable)
	assert.False(t, result.Changed)
	assert.Equal(t, LogEntry{Stage: StageClean, Message: "no conflicting url/doi entries found"}, result.Log[0])
	assert.Equal(t, LogEntry{Stage: StageAbbrev, Message: "no journal names needed abbreviation"}, result.Log[1])
}

func TestProcess_StageToggles(t *testing.T) {
	t.Run("clean only", func(t *testing.T) {
		env := newTestEnv(t, sampleBib, sampleTable)
		req := env.request()
		req.Abbreviate = false

		result, err := env.eng.Process(context.Background(), req)
		require.NoError(t, err)
		assert.Nil(t, result.Table)
		assert.Contains(t, result.Text, "{Journal of Applied Physics}")
		assert.NotContains(t, result.Text, "10.1/x")
	})

	t.Run("abbreviate only", func(t *testing.T) {
		env := newTestEnv(t, sampleBib, sampleTable)
		req := env.request()
		req.CleanConflicts = false

		result, err := env.eng.Process(context.Background(), req)
		require.NoError(t, err)
		assert.Zero(t, result.ConflictsResolved)
		assert.Contains(t, result.Text, "10.1/x")
		assert.Contains(t, result.Text, "{J. Appl. Phys.}")
	})

	t.Run("nothing enabled", func(t *testing.T) {
		env := newTestEnv(t, sampleBib, sampleTable)
		_, err := env.eng.Process(context.Background(), &ProcessRequest{InputPath: env.input})
		assert.ErrorIs(t, err, ErrNoStages)
	})
}

func TestProcess_DryRun(t *testing.T) {
	env := newTestEnv(t, sampleBib, sampleTable)
	req := env.request()
	req.DryRun = true

	result, err := env.eng.Process(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, result.Written)
	assert.True(t, result.Changed)
	_, statErr := os.Stat(result.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcess_UpToDateOutputIsNotRewritten(t *testing.T) {
	env := newTestEnv(t, sampleBib, sampleTable)

	first, err := env.eng.Process(context.Background(), env.request())
	require.NoError(t, err)
	require.True(t, first.Written)

	stale := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(first.OutputPath, stale, stale))

	second, err := env.eng.Process(context.Background(), env.request())
	require.NoError(t, err)
	assert.True(t, second.UpToDate)
	assert.False(t, second.Written)

	info, err := os.Stat(second.OutputPath)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stale))
}

func TestProcess_UpToDateComparesDigests(t *testing.T) {
	env := newTestEnv(t, sampleBib, sampleTable)
	output := filepath.Join(env.dir, "processed_refs.bib")
	require.NoError(t, os.WriteFile(output, []byte("placeholder"), 0644))

	hasher := hash.NewFakeHasher()
	hasher.SetFileHash(output, "fakehash")
	eng := New(fsops.NewRealFS(), hasher, env.clock, abbrev.NewLoader(nil), env.eng.Settings(), nil)

	result, err := eng.Process(context.Background(), env.request())
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
	assert.False(t, result.Changed, "equal digests mean unchanged")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "placeholder", string(data))
}

func TestProcess_StaleOutputIsReplaced(t *testing.T) {
	env := newTestEnv(t, sampleBib, sampleTable)
	stale := filepath.Join(env.dir, "processed_refs.bib")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	result, err := env.eng.Process(context.Background(), env.request())
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.True(t, result.Written)

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, result.Text, string(data))
}

func TestProcess_OutputPath(t *testing.T) {
	t.Run("explicit output", func(t *testing.T) {
		env := newTestEnv(t, sampleBib, sampleTable)
		req := env.request()
		req.OutputPath = filepath.Join(env.dir, "out", "clean.bib")

		result, err := env.eng.Process(context.Background(), req)
		require.NoError(t, err)
		assert.FileExists(t, req.OutputPath)
		assert.Equal(t, req.OutputPath, result.OutputPath)
	})

	t.Run("custom prefix", func(t *testing.T) {
		env := newTestEnv(t, sampleBib, sampleTable)
		req := env.request()
		req.OutputPrefix = "abbr_"

		result, err := env.eng.Process(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(env.dir, "abbr_refs.bib"), result.OutputPath)
	})

	t.Run("output equal to input is refused", func(t *testing.T) {
		env := newTestEnv(t, sampleBib, sampleTable)
		req := env.request()
		req.OutputPath = env.input

		_, err := env.eng.Process(context.Background(), req)
		assert.ErrorIs(t, err, ErrOverwriteInput)
	})

	t.Run("prefix with separator is refused", func(t *testing.T) {
		env := newTestEnv(t, sampleBib, sampleTable)
		req := env.request()
		req.OutputPrefix = "../"

		_, err := env.eng.Process(context.Background(), req)
		assert.Error(t, err)
	})
}

func TestProcess_Errors(t *testing.T) {
	env := newTestEnv(t, sampleBib, sampleTable)

	t.Run("no input", func(t *testing.T) {
		_, err := env.eng.Process(context.Background(), &ProcessRequest{Abbreviate: true})
		assert.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("missing input file", func(t *testing.T) {
		req := env.request()
		req.InputPath = filepath.Join(env.dir, "missing.bib")
		_, err := env.eng.Process(context.Background(), req)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := env.eng.Process(ctx, env.request())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestProcess_DropsInvalidUTF8(t *testing.T) {
	env := newTestEnv(t, "@misc{m,\n  title = {Caf\xe9}\n}", sampleTable)

	result, err := env.eng.Process(context.Background(), env.request())
	require.NoError(t, err)
	assert.Contains(t, result.Text, "title = {Caf}")
}

func TestProcess_ReportsProgress(t *testing.T) {
	env := newTestEnv(t, sampleBib, sampleTable)
	req := env.request()
	var last [2]int
	req.Progress = func(done, total int) { last = [2]int{done, total} }

	_, err := env.eng.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 2}, last)
}

func TestOutputPathFor(t *testing.T) {
	tests := []struct {
		input, prefix, want string
	}{
		{"refs.bib", "processed_", "processed_refs.bib"},
		{filepath.Join("a", "b", "refs.bib"), "x_", filepath.Join("a", "b", "x_refs.bib")},
		{filepath.Join("/", "data", "my refs.txt"), "processed_", filepath.Join("/", "data", "processed_my refs.txt")},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPathFor(tt.input, tt.prefix))
		})
	}
}

func TestLookup(t *testing.T) {
	env := newTestEnv(t, sampleBib, sampleTable)

	res, err := env.eng.Lookup(&LookupRequest{Name: "Physical Review Letters"})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "{Phys. Rev. Lett.}", res.Pair.Short)
	assert.Equal(t, 2, res.Table.Pairs)

	res, err = env.eng.Lookup(&LookupRequest{Name: "Unknown Journal"})
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Nil(t, res.Pair)
}

func TestTable_UsesCache(t *testing.T) {
	env := newTestEnv(t, sampleBib, sampleTable)

	first, err := env.eng.Table("")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(env.table, []byte(strings.Repeat("More Journal Names = M. J. N.\n", 3)), 0644))
	second, err := env.eng.Table(env.table)
	require.NoError(t, err)

	assert.Same(t, first, second)
}
