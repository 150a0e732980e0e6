package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmitrijs2005/recoveryvault/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubReads(t *testing.T, values ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) {
		v := values[0]
		values = values[1:]
		return []byte(v), nil
	}
}

func TestRun(t *testing.T) {
	stubReads(t, "2468", "2468")
	var out, prompt bytes.Buffer

	require.NoError(t, run(&out, &prompt, 0))
	enc := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(enc, "$argon2id$v=19$"))
	ok, err := cryptox.VerifyPIN(enc, []byte("2468"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, prompt.String(), "Repeat PIN: ")
}

func TestRun_Mismatch(t *testing.T) {
	stubReads(t, "2468", "1357")
	var out, prompt bytes.Buffer
	assert.ErrorContains(t, run(&out, &prompt, 0), "do not match")
	assert.Empty(t, out.String())
}

func TestRun_Empty(t *testing.T) {
	stubReads(t, "", "")
	var out, prompt bytes.Buffer
	assert.ErrorContains(t, run(&out, &prompt, 0), "empty PIN")
}
