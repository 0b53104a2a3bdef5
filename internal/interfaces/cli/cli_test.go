package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/example/parking-scheduler/internal/infrastructure/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PARKSCHED_CONFIG", "PARKALOT_USER", "PARKALOT_PASS", "DATABASE_URL", "LOG_FILE", "RESERVE_TZ", "RESERVE_AT"} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	isolate(t)
	t.Setenv("RESERVE_AT", "not a time")

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "parksched dev"))
}

func TestTargetsFixedDate(t *testing.T) {
	isolate(t)
	out, err := execute(t, "targets", "--date", "2026-06-01")
	require.NoError(t, err)
	assert.Equal(t, "1st June\n1 June\n", out)
}

func TestTargetsWeekAheadIsWeekday(t *testing.T) {
	isolate(t)
	out, err := execute(t, "targets")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestRunWithoutCredentialsFailsBeforeBrowser(t *testing.T) {
	isolate(t)
	_, err := execute(t, "run", "--no-wait")
	assert.ErrorIs(t, err, parking.ErrConfiguration)
}

func TestRunRejectsBadDate(t *testing.T) {
	isolate(t)
	_, err := execute(t, "run", "--date", "08/06/2026")
	assert.ErrorIs(t, err, parking.ErrConfiguration)
}

func TestInvalidConfigFails(t *testing.T) {
	isolate(t)
	t.Setenv("RESERVE_AT", "noon")
	_, err := execute(t, "targets")
	assert.ErrorIs(t, err, parking.ErrConfiguration)
}

func TestConfigFileFlag(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reserve_tz: Europe/London\n"), 0o600))

	root := NewRoot()
	root.SetArgs([]string{"--config", path, "targets", "--date", "2026-06-01"})
	root.SetOut(&bytes.Buffer{})
	require.NoError(t, root.Execute())
}

func TestHistoryRequiresDatabase(t *testing.T) {
	isolate(t)
	_, err := execute(t, "history")
	require.ErrorIs(t, err, parking.ErrConfiguration)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestPrintRuns(t *testing.T) {
	started := time.Date(2026, 6, 1, 11, 0, 1, 0, time.UTC)
	finished := started.Add(time.Minute)
	runs := []parking.Run{
		{ID: "a", StartedAt: started, FinishedAt: &finished, Targets: parking.TargetDates{"8th June", "8 June"},
			Outcome: parking.Outcome{Attempted: true, Succeeded: true, Spot: "42"}},
		{ID: "b", StartedAt: started, Targets: parking.TargetDates{"9th June"}},
	}
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	printRuns(cmd, runs)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "8th June")
	assert.Contains(t, lines[1], "reserved")
	assert.Contains(t, lines[1], "42")
	assert.Contains(t, lines[2], "running")
}

func TestLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parksched.log")
	log, err := newLogger(true, path)
	require.NoError(t, err)

	log.Debug("hello file")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello file")
}

func TestRunAndTargetsShareReservationClock(t *testing.T) {
	auckland, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	// Thursday afternoon in UTC is already Friday in Auckland.
	a := &app{
		cfg:   config.Config{Location: auckland},
		log:   zap.NewNop(),
		clock: func() time.Time { return time.Date(2026, time.June, 4, 13, 0, 0, 0, time.UTC) },
	}

	uc := a.reserveParking(parking.WeekAhead{}, false, nil)
	assert.Equal(t, auckland, uc.Now().Location())
	assert.Equal(t, parking.TargetDates{"12th June", "12 June"}, uc.Dates.Resolve(uc.Now()))

	cmd := newTargetsCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "12th June\n12 June\n", out.String())
}

func TestUnreachableDatabaseDoesNotStopRun(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	a := &app{
		cfg: config.Config{DatabaseURL: "postgres://parksched:pw@127.0.0.1:1/parksched?connect_timeout=1"},
		log: zap.New(core),
	}

	assert.Nil(t, a.optionalDB(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("database unavailable; running without history or run lock").Len())

	_, err := a.openDB(context.Background())
	assert.Error(t, err)
}

func TestRunContinuesPastUnreachableDatabase(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "postgres://parksched:pw@127.0.0.1:1/parksched?connect_timeout=1")

	// The run reaches the credential check instead of failing on the database.
	_, err := execute(t, "run", "--no-wait")
	assert.ErrorIs(t, err, parking.ErrConfiguration)
}
