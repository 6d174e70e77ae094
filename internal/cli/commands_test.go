package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/themizzi/e2eharness/internal/logging"
)

var harnessEnvKeys = []string{
	"SAUCE_URL", "REQRES_URL", "REQRES_API_KEY", "SAUCE_USER", "SAUCE_PASSWORD",
	"BROWSER", "HEADLESS", "SLOW_MO", "TRACE_DIR", "STUB_PORT", "E2E_PROFILE",
}

// isolateEnv unsets every harness variable for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range harnessEnvKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

type recordedRun struct {
	name string
	args []string
	env  []string
}

type fakeDeps struct {
	runs      []recordedRun
	runErr    error
	installed [][]string
}

func (f *fakeDeps) deps() Deps {
	return Deps{
		Run: func(ctx context.Context, name string, args, env []string) error {
			f.runs = append(f.runs, recordedRun{name: name, args: args, env: env})
			return f.runErr
		},
		Install: func(browsers []string) error {
			f.installed = append(f.installed, browsers)
			return nil
		},
		Logger: logging.Nop(),
	}
}

func runApp(t *testing.T, f *fakeDeps, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp("test", f.deps())
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"e2eharness", "--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	return out.String(), err
}

func TestTestCommand(t *testing.T) {
	tests := []struct {
		name     string
		opts     RunOptions
		wantName string
		wantArgs []string
	}{
		{
			name:     "everything through go test",
			opts:     RunOptions{Procs: 1, Package: "./e2e"},
			wantName: "go",
			wantArgs: []string{"test", "-tags", "e2e", "-count=1", "./e2e/...", "-args"},
		},
		{
			name:     "tag and retries",
			opts:     RunOptions{Tag: "ui", Retries: 2, Package: "./e2e", Verbose: true},
			wantName: "go",
			wantArgs: []string{"test", "-tags", "e2e", "-count=1", "./e2e/...", "-args", "-ginkgo.label-filter=ui", "-ginkgo.flake-attempts=3", "-ginkgo.v"},
		},
		{
			name:     "parallel needs ginkgo",
			opts:     RunOptions{Tag: "api", Retries: 1, Procs: 4, Package: "./e2e"},
			wantName: "ginkgo",
			wantArgs: []string{"-p", "--procs=4", "--tags=e2e", "--label-filter=api", "--flake-attempts=2", "./e2e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args := TestCommand(tt.opts)

			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestRunCommand(t *testing.T) {
	// GIVEN
	isolateEnv(t)
	f := &fakeDeps{}

	// WHEN
	_, err := runApp(t, f, "run", "--tag", "ui", "--retries", "2", "--real")

	// THEN
	require.NoError(t, err)
	require.Len(t, f.runs, 1)
	assert.Equal(t, "go", f.runs[0].name)
	assert.Contains(t, f.runs[0].args, "-ginkgo.label-filter=ui")
	assert.Contains(t, f.runs[0].args, "-ginkgo.flake-attempts=3")
	assert.Equal(t, []string{"E2E_USE_STUB=false"}, f.runs[0].env)
}

func TestRunCommand_UnknownTag(t *testing.T) {
	isolateEnv(t)
	f := &fakeDeps{}

	_, err := runApp(t, f, "run", "--tag", "smoke")

	assert.ErrorContains(t, err, `unknown tag "smoke"`)
	assert.Empty(t, f.runs)
}

func TestRunCommand_RunnerFailure(t *testing.T) {
	isolateEnv(t)
	f := &fakeDeps{runErr: errors.New("executable file not found in $PATH")}

	_, err := runApp(t, f, "run", "--procs", "2")

	assert.ErrorContains(t, err, "failed to run suites")
	require.Len(t, f.runs, 1)
	assert.Equal(t, "ginkgo", f.runs[0].name)
}

func TestInstallCommand(t *testing.T) {
	isolateEnv(t)

	t.Run("configured browser", func(t *testing.T) {
		t.Setenv("BROWSER", "firefox")
		f := &fakeDeps{}

		_, err := runApp(t, f, "install")

		require.NoError(t, err)
		assert.Equal(t, [][]string{{"firefox"}}, f.installed)
	})

	t.Run("all browsers", func(t *testing.T) {
		f := &fakeDeps{}

		_, err := runApp(t, f, "install", "--all")

		require.NoError(t, err)
		assert.Equal(t, [][]string{{"chromium", "firefox", "webkit"}}, f.installed)
	})
}

func TestConfigCommand_MasksSecrets(t *testing.T) {
	// GIVEN
	isolateEnv(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("REQRES_API_KEY=top-secret\nSAUCE_URL=http://localhost:9999\n"), 0o600))

	// WHEN
	var out bytes.Buffer
	app := NewApp("test", (&fakeDeps{}).deps())
	app.Writer = &out
	err := app.Run([]string{"e2eharness", "--env-file", envFile, "config"})

	// THEN
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "REQRES_API_KEY=****\n")
	assert.Contains(t, text, "SAUCE_URL=http://localhost:9999\n")
	assert.Contains(t, text, "SAUCE_PASSWORD=****\n")
	assert.NotContains(t, text, "top-secret")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "BROWSER="), "keys are sorted")
}

func TestConfigCommand_InvalidConfiguration(t *testing.T) {
	isolateEnv(t)
	t.Setenv("BROWSER", "netscape")

	_, err := runApp(t, &fakeDeps{}, "config")

	assert.ErrorContains(t, err, "failed to load configuration")
}
