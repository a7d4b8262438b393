package cmd

import (
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCaptureMode_EnableThenSatisfied(t *testing.T) {
	fake := newFakeRemote()
	ctx := newTestContext(t, fake)

	ok, err := captureModeSatisfied(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, enableCaptureMode(ctx))
	require.True(t, fake.promisc)
	require.True(t, fake.enabled[unitPromisc])
	require.Equal(t, renderPromiscUnit("eth0"),
		string(fake.files[path.Join(systemdDir, unitPromisc)]))

	ok, err = captureModeSatisfied(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCaptureMode_PromiscWithoutUnitIsNotSatisfied(t *testing.T) {
	fake := newFakeRemote()
	fake.promisc = true
	ctx := newTestContext(t, fake)

	ok, err := captureModeSatisfied(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCaptureMode_StaleUnitContentIsNotSatisfied(t *testing.T) {
	fake := newFakeRemote()
	fake.promisc = true
	fake.putFile(path.Join(systemdDir, unitPromisc), []byte("[Unit]\nDescription=old\n"), 0o644)
	ctx := newTestContext(t, fake)

	ok, err := captureModeSatisfied(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEnableCaptureMode_SetFailureIsFatal(t *testing.T) {
	fake := newFakeRemote()
	ctx := newTestContext(t, fake)
	fake.script("ip link set eth0 promisc on",
		fakeResp{out: "Cannot find device \"eth0\"\n", exit: 1})

	err := enableCaptureMode(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "promiscuous mode")
	require.False(t, fake.enabled[unitPromisc])
}
