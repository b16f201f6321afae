package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWordPool(t *testing.T) {
	require.NoError(t, DefaultWordPool.validate())
	assert.Len(t, DefaultWordPool, 8)
}

func TestWordPoolPick(t *testing.T) {
	pool := WordPool{{Common: "A", Undercover: "B"}, {Common: "C", Undercover: "D"}}
	seen := map[string]bool{}
	rng := NewRandom(3)
	for i := 0; i < 50; i++ {
		seen[pool.Pick(rng).Common] = true
	}
	assert.Len(t, seen, 2)
}

func TestLoadWordPool(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	pool, err := LoadWordPool(write("ok.json", `[{"common":"Sun","undercover":"Moon"}]`))
	require.NoError(t, err)
	assert.Equal(t, WordPool{{Common: "Sun", Undercover: "Moon"}}, pool)

	_, err = LoadWordPool(write("empty.json", `[]`))
	assert.Error(t, err)

	_, err = LoadWordPool(write("blank.json", `[{"common":"Sun","undercover":" "}]`))
	assert.Error(t, err)

	_, err = LoadWordPool(write("same.json", `[{"common":"Sun","undercover":"sun"}]`))
	assert.Error(t, err)

	_, err = LoadWordPool(write("bad.json", `{`))
	assert.Error(t, err)

	_, err = LoadWordPool(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
