package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunOutcome_ExitCode(t *testing.T) {
	done := &runOutcome{state: stateDone}
	require.Equal(t, 0, done.exitCode())

	// Warnings never taint the exit status.
	done.warnings = []string{"dashboard unhealthy"}
	require.Equal(t, 0, done.exitCode())

	failed := &runOutcome{state: stateFailed}
	require.Equal(t, 1, failed.exitCode())
	require.Equal(t, 1, (&runOutcome{state: statePending}).exitCode())
}

func TestRunOutcome_FailedStage(t *testing.T) {
	o := &runOutcome{}
	o.record("connectivity", statusApplied, "")
	o.record("dependencies", statusSkipped, "")
	require.Nil(t, o.failedStage())

	o.record("sensor", statusFailed, "apt-get exited 100")
	fs := o.failedStage()
	require.NotNil(t, fs)
	require.Equal(t, "sensor", fs.name)
	require.Equal(t, "apt-get exited 100", fs.detail)
}

func TestRunOutcome_RenderListsStagesInOrder(t *testing.T) {
	o := &runOutcome{state: stateFailed}
	o.record("connectivity", statusApplied, "")
	o.record("dependencies", statusFailed, "apt-get exited 100")

	var buf bytes.Buffer
	o.render(&buf)
	s := buf.String()

	require.Contains(t, s, "connectivity")
	require.Contains(t, s, "applied")
	require.Contains(t, s, "failed")
	require.Contains(t, s, "apt-get exited 100")
	require.Less(t, bytes.Index(buf.Bytes(), []byte("connectivity")),
		bytes.Index(buf.Bytes(), []byte("dependencies")))
}

func TestStageStatusStrings(t *testing.T) {
	require.Equal(t, "already satisfied", statusSkipped.String())
	require.Equal(t, "applied", statusApplied.String())
	require.Equal(t, "failed", statusFailed.String())
	require.Equal(t, "done", stateDone.String())
	require.Equal(t, "failed", stateFailed.String())
}
