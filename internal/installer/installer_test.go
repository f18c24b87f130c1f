package installer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decktools/decktools/internal/remote"
)

const (
	testPreamble = "#!/bin/sh\necho 'need root'\n"
	testScript   = "echo 'installing rwfus'\n"
)

// fakeFetcher serves fixed bodies by path and records every request.
type fakeFetcher struct {
	bodies map[string]string
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, path string) (string, error) {
	f.calls = append(f.calls, path)
	body, ok := f.bodies[path]
	if !ok {
		return "", &remote.FetchError{Kind: remote.ErrNotFound, URL: "https://example.invalid/" + path}
	}
	return body, nil
}

// fakeRunner records the script it is asked to run.
type fakeRunner struct {
	code   int
	err    error
	script string
	runs   int
}

func (r *fakeRunner) Run(_ context.Context, script string) (int, error) {
	r.runs++
	r.script = script
	return r.code, r.err
}

func newFixture() (*fakeFetcher, *fakeRunner, *Installer) {
	f := &fakeFetcher{bodies: map[string]string{
		PreamblePath:                       testPreamble,
		"install_scripts/rwfus.sh":         testScript,
		"install_scripts/cryoutilities.sh": "echo cryo\n",
	}}
	r := &fakeRunner{}
	return f, r, New(f, r)
}

func TestScriptPath(t *testing.T) {
	assert.Equal(t, "install_scripts/cryoutilities.sh", ScriptPath("CryoUtilities"))
	assert.Equal(t, "install_scripts/mytool.sh", ScriptPath("My Tool"))
}

func TestComposeWithPreamble(t *testing.T) {
	f, _, inst := newFixture()

	blob, err := inst.Compose(context.Background(), "Rwfus", true)
	require.NoError(t, err)
	assert.Equal(t, testPreamble+testScript, blob)
	assert.True(t, strings.HasPrefix(blob, testPreamble))
	assert.Equal(t, []string{PreamblePath, "install_scripts/rwfus.sh"}, f.calls)
}

func TestComposeWithoutPreamble(t *testing.T) {
	f, _, inst := newFixture()

	blob, err := inst.Compose(context.Background(), "Rwfus", false)
	require.NoError(t, err)
	assert.Equal(t, testScript, blob)
	assert.NotContains(t, f.calls, PreamblePath)
	assert.Equal(t, []string{"install_scripts/rwfus.sh"}, f.calls)
}

func TestInstallRunsComposedScript(t *testing.T) {
	_, r, inst := newFixture()

	require.NoError(t, inst.Install(context.Background(), "Rwfus", true))
	assert.Equal(t, 1, r.runs)
	assert.Equal(t, testPreamble+testScript, r.script)
}

func TestInstallScriptNotFound(t *testing.T) {
	_, r, inst := newFixture()

	err := inst.Install(context.Background(), "Unknown Tool", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownload)
	assert.ErrorIs(t, err, remote.ErrNotFound)
	assert.Zero(t, r.runs, "runner must not be called when the download fails")
}

func TestInstallPreambleNotFound(t *testing.T) {
	f, r, inst := newFixture()
	delete(f.bodies, PreamblePath)

	err := inst.Install(context.Background(), "Rwfus", true)
	assert.ErrorIs(t, err, ErrDownload)
	assert.Equal(t, []string{PreamblePath}, f.calls, "tool script is not fetched after the preamble fails")
	assert.Zero(t, r.runs)
}

func TestInstallScriptFailed(t *testing.T) {
	_, r, inst := newFixture()
	r.code = 1

	err := inst.Install(context.Background(), "Rwfus", false)
	require.ErrorIs(t, err, ErrScriptFailed)

	var ie *InstallError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 1, ie.ExitCode)
	assert.Equal(t, "Rwfus", ie.Title)
	assert.Equal(t, "installing Rwfus: install script failed with exit code 1", err.Error())
}

func TestInstallSpawnFailed(t *testing.T) {
	_, r, inst := newFixture()
	r.code = -1
	r.err = errors.New("exec: konsole: not found")

	err := inst.Install(context.Background(), "Rwfus", false)
	assert.ErrorIs(t, err, ErrSpawnFailed)
	assert.NotErrorIs(t, err, ErrScriptFailed)
}

func TestInstallAfterFailureStillWorks(t *testing.T) {
	_, r, inst := newFixture()
	r.code = 1
	require.Error(t, inst.Install(context.Background(), "Rwfus", false))

	r.code = 0
	require.NoError(t, inst.Install(context.Background(), "CryoUtilities", true))
	assert.Equal(t, testPreamble+"echo cryo\n", r.script)
}
