package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/vocdoni/poseidon254"
	"github.com/vocdoni/poseidon254/internal/params"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	require.NoError(t, err)
	return out
}

func TestParseWidths(t *testing.T) {
	got, err := parseWidths("2-4,9")
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 4, 9}, got)

	got, err = parseWidths("17")
	require.NoError(t, err)
	require.Equal(t, []int{params.MaxWidth}, got)

	for _, bad := range []string{"", "x", "5-3", "2-", "1", "18", "0-3", "2-2000000000"} {
		_, err := parseWidths(bad)
		require.Error(t, err, "input %q", bad)
	}
	_, err = parseWidths("2-2000000000")
	require.ErrorIs(t, err, params.ErrUnsupportedWidth)
}

func TestHashCommand(t *testing.T) {
	var a, b fr.Element
	a.SetUint64(1)
	b.SetUint64(2)
	want, err := poseidon254.Hash(poseidon254.MerkleTree, a, b)
	require.NoError(t, err)

	got := run(t, "hash", "--mode", "merkle", "1", "0x2")
	require.Equal(t, want.String(), got)
}

func TestHashCommandRejectsNonCanonical(t *testing.T) {
	_, err := execute("hash", fr.Modulus().String())
	require.ErrorIs(t, err, params.ErrMalformedConstant)

	_, err = execute("hash", "0x"+fr.Modulus().Text(16))
	require.ErrorIs(t, err, params.ErrMalformedConstant)

	_, err = execute("merkle-root", "1", "12a")
	require.ErrorIs(t, err, params.ErrMalformedConstant)
}

func TestCommandsDoNotShareState(t *testing.T) {
	t.Cleanup(func() { params.SetDefaultSource(params.GrainSource{}) })

	path := filepath.Join(t.TempDir(), "table.json")
	run(t, "params", "export", "--widths", "2", "--out", path)

	in := make([]fr.Element, 3)
	for i := range in {
		in[i].SetUint64(uint64(i + 1))
	}
	pair, err := poseidon254.HashPair(in[0], in[1])
	require.NoError(t, err)
	triple, err := poseidon254.Hash3(in[0], in[1], in[2])
	require.NoError(t, err)

	for range 2 {
		// The table only covers width 2, so a leaked --table breaks the
		// three-input hash and a leaked --mode changes the digest.
		run(t, "hash", "--table", path, "--mode", "merkle", "7")
		require.Equal(t, triple.String(), run(t, "hash", "1", "2", "3"))
		require.Equal(t, pair.String(), run(t, "hash", "--mode", "merkle", "1", "2"))
	}
}

func TestParamsExportAndCheck(t *testing.T) {
	t.Cleanup(func() { params.SetDefaultSource(params.GrainSource{}) })

	path := filepath.Join(t.TempDir(), "table.json")
	run(t, "params", "export", "--widths", "2-3", "--out", path)

	table, err := params.LoadTableFile(path)
	require.NoError(t, err)
	require.Equal(t, table.Fingerprint(), run(t, "params", "check", path))

	// Hashing through the exported table matches the built-in parameters.
	var x fr.Element
	x.SetUint64(5)
	want, err := poseidon254.Hash1(x)
	require.NoError(t, err)
	got := run(t, "hash", "--table", path, "--mode", "const", "5")
	require.Equal(t, want.String(), got)
}

func TestParamsExportWriteErrors(t *testing.T) {
	_, err := execute("params", "export", "--widths", "2", "--out", filepath.Join(t.TempDir(), "missing", "table.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute("params", "export", "--widths", "2-2000000000")
	require.ErrorIs(t, err, params.ErrUnsupportedWidth)
}

func TestWriteTableFile(t *testing.T) {
	table, err := params.ExportTable(params.GrainSource{}, 2)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "table.json")
	require.NoError(t, writeTableFile(table, path))

	loaded, err := params.LoadTableFile(path)
	require.NoError(t, err)
	require.Equal(t, table.Fingerprint(), loaded.Fingerprint())
}
