package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotdeck/plotdeck/internal/app"
	"github.com/plotdeck/plotdeck/internal/journal"
	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// recordedJournal drives a short session against a journaled app and
// returns the database path.
func recordedJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	js, err := journal.Open(path)
	require.NoError(t, err)

	a := app.New(app.WithJournal(js, journal.NewFixedGenerator("run-1")))
	_, err = a.LoadDataset("lap1.csv", []string{"temp", "rpm"})
	require.NoError(t, err)
	_, err = a.AddTab("main", 1, 1)
	require.NoError(t, err)
	_, _, err = a.Assign(0, 0, []sigkey.Key{sigkey.New(0, "temp")})
	require.NoError(t, err)

	require.NoError(t, js.Close())
	return path
}

func TestReplay_Text(t *testing.T) {
	path := recordedJournal(t)
	out, err := execute(t, "replay", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "replayed 3 operation(s)")
	assert.Contains(t, out, "1 source(s)")
	assert.Contains(t, out, "1 tab(s)")
}

func TestReplay_JSON(t *testing.T) {
	path := recordedJournal(t)
	out, err := execute(t, "--format", "json", "replay", "--db", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err2 := json.Marshal(resp.Data)
	require.NoError(t, err2)
	var result ReplayResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, int64(3), result.OpsApplied)
	assert.Equal(t, 1, result.Sources)
}

func TestReplay_FailingOp(t *testing.T) {
	path := recordedJournal(t)
	js, err := journal.Open(path)
	require.NoError(t, err)
	_, err = js.Append(context.Background(), "run-1", "time_travel", struct{}{})
	require.NoError(t, err)
	require.NoError(t, js.Close())

	_, err = execute(t, "replay", "--db", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestReplay_MissingDBFlag(t *testing.T) {
	_, err := execute(t, "replay")
	require.Error(t, err)
}
