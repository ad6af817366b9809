package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitFailure, "it broke")
	assert.Equal(t, "it broke", err.Error())
	assert.Equal(t, ExitFailure, GetExitCode(err))

	wrapped := WrapExitError(ExitCommandError, "outer", errors.New("inner"))
	assert.Equal(t, "outer: inner", wrapped.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.EqualError(t, errors.Unwrap(wrapped), "inner")
}

func TestGetExitCode_PlainError(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestGetExitCode_WrappedExitError(t *testing.T) {
	err := fmt.Errorf("context: %w", NewExitError(ExitCommandError, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFormatterSuccess_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Success(map[string]int{"n": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestFormatterError_Text(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}
	require.NoError(t, f.Error("S101", "bad session", nil))
	assert.Contains(t, buf.String(), "Error [S101]: bad session")
}

func TestVerboseLog_Gated(t *testing.T) {
	var out, diag bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &diag}

	f.VerboseLog("quiet %d", 1)
	assert.Empty(t, diag.String())

	f.Verbose = true
	f.VerboseLog("loud %d", 2)
	assert.Equal(t, "loud 2\n", diag.String())
	assert.Empty(t, out.String(), "verbose logs must not corrupt JSON output")
}
