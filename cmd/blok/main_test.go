package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return stdout.String(), code
}

func TestRun(t *testing.T) {
	t.Run("register and create", func(t *testing.T) {
		out, code := runCmd(t, "-create", "HelloSource", "-create", "RepeatFilter", "builtin")

		assert.Equal(t, 0, code)
		assert.Equal(t, "register builtin OK\ncreate HelloSource OK\ncreate RepeatFilter OK\n", out)
	})

	t.Run("unknown names fail", func(t *testing.T) {
		out, code := runCmd(t, "-create", "Nope", "builtin", "other")

		assert.Equal(t, 1, code)
		assert.Equal(t, "register builtin OK\nregister other FAILED\ncreate Nope FAILED\n", out)
	})

	t.Run("failed creates are logged", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"-create", "Nope"}, &stdout, &stderr)

		assert.Equal(t, 1, code)
		assert.Equal(t, "create Nope FAILED\n", stdout.String())
		assert.Contains(t, stderr.String(), "blok.create: Nope lookup failed: unknown name")
	})

	t.Run("executives exist without modules", func(t *testing.T) {
		out, code := runCmd(t, "-create", "PullExecutive")

		assert.Equal(t, 0, code)
		assert.Equal(t, "create PullExecutive OK\n", out)
	})

	t.Run("registrations do not outlive a run", func(t *testing.T) {
		_, code := runCmd(t, "builtin")
		require.Equal(t, 0, code)

		out, code := runCmd(t, "-create", "HelloSource")
		assert.Equal(t, 1, code)
		assert.Equal(t, "create HelloSource FAILED\n", out)
	})

	t.Run("list", func(t *testing.T) {
		out, code := runCmd(t, "-list", "builtin", "other")

		assert.Equal(t, 1, code)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "builtin: built-in bloks"))
		assert.Equal(t, "other: unknown module", lines[1])
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "blok.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
log: {level: error}
modules: [builtin]
create: [RecorderSink]
`), 0o600))

		out, code := runCmd(t, "-config", path, "-create", "HelloSource")

		assert.Equal(t, 0, code)
		assert.Equal(t, "register builtin OK\ncreate RecorderSink OK\ncreate HelloSource OK\n", out)
	})

	t.Run("bad config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "blok.yaml")
		require.NoError(t, os.WriteFile(path, []byte("executive: {default: Eager}\n"), 0o600))

		_, code := runCmd(t, "-config", path)
		assert.Equal(t, 2, code)
	})

	t.Run("bad flag", func(t *testing.T) {
		_, code := runCmd(t, "-nope")
		assert.Equal(t, 2, code)
	})

	t.Run("metrics", func(t *testing.T) {
		out, code := runCmd(t, "-metrics", "builtin")
		require.Equal(t, 0, code)

		body := strings.TrimPrefix(out, "register builtin OK\n")
		var parser expfmt.TextParser
		families, err := parser.TextToMetricFamilies(strings.NewReader(body))
		require.NoError(t, err)

		names, ok := families["blok_registry_names"]
		require.True(t, ok)
		assert.Equal(t, dto.MetricType_GAUGE, names.GetType())
		require.Len(t, names.GetMetric(), 1)
		assert.Equal(t, 6.0, names.GetMetric()[0].GetGauge().GetValue())
	})
}
