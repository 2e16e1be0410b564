package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compare.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Minimal(t *testing.T) {
	path := writeManifest(t, `
compare: {
	first:  { csv: "before.csv" }
	second: { csv: "after.csv" }
}
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "before.csv", m.First.CSV)
	assert.Equal(t, "after.csv", m.Second.CSV)
	assert.Nil(t, m.Threshold)
	assert.Empty(t, m.Significance)
}

func TestLoad_Full(t *testing.T) {
	path := writeManifest(t, `
compare: {
	first:  { csv: "before.csv" }
	second: { store: "logs.db", log: "after" }
	threshold:    0.85
	significance: "dependency"
	palette: { first: "#cc0000", second: "#0066cc" }
	output: { complete: "all.dot", filtered: "strong.dot" }
}
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "logs.db", m.Second.Store)
	assert.Equal(t, "after", m.Second.Log)
	require.NotNil(t, m.Threshold)
	assert.Equal(t, 0.85, *m.Threshold)
	assert.Equal(t, "dependency", m.Significance)
	assert.Equal(t, "#cc0000", m.Palette.First)
	assert.Empty(t, m.Palette.Common)
	assert.Equal(t, "all.dot", m.Output.Complete)
	assert.Equal(t, "strong.dot", m.Output.Filtered)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{
			"missing compare",
			`other: {}`,
			"",
		},
		{
			"no source",
			`compare: { first: {}, second: { csv: "b.csv" } }`,
			"csv path or a store database",
		},
		{
			"both sources",
			`compare: { first: { csv: "a.csv", store: "db" }, second: { csv: "b.csv" } }`,
			"mutually exclusive",
		},
		{
			"store without log",
			`compare: { first: { store: "logs.db" }, second: { csv: "b.csv" } }`,
			"requires a log name",
		},
		{
			"log with csv",
			`compare: { first: { csv: "a.csv", log: "x" }, second: { csv: "b.csv" } }`,
			"only applies to store",
		},
		{
			"threshold out of range",
			`compare: { first: { csv: "a.csv" }, second: { csv: "b.csv" }, threshold: 1.5 }`,
			"",
		},
		{
			"unknown significance",
			`compare: { first: { csv: "a.csv" }, second: { csv: "b.csv" }, significance: "entropy" }`,
			"",
		},
		{
			"unknown field",
			`compare: { first: { csv: "a.csv" }, second: { csv: "b.csv" }, extra: true }`,
			"",
		},
		{
			"syntax error",
			`compare: {`,
			"",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, tc.content))
			require.Error(t, err)
			if tc.want != "" {
				assert.Contains(t, err.Error(), tc.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	var me *Error
	require.ErrorAs(t, err, &me)
}
