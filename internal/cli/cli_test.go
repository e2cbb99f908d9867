package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orderproc/internal/app"
	"github.com/vladislavdragonenkov/orderproc/internal/domain"
	"github.com/vladislavdragonenkov/orderproc/internal/health"
	"github.com/vladislavdragonenkov/orderproc/internal/service/orders"
)

func fixedRuntime(rt *app.Runtime) runtimeFactory {
	return func(context.Context, app.Config, *log.Entry) (*app.Runtime, error) {
		return rt, nil
	}
}

func run(t *testing.T, factory runtimeFactory, env map[string]string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(factory, func(key string) string { return env[key] })
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type failingRepo struct{}

func (failingRepo) SaveOrder(domain.Order) (int64, error) {
	return 0, domain.NewSaveFailedError(assert.AnError)
}

func (failingRepo) GetOrderByID(int64) (domain.Option[domain.Order], error) {
	return domain.None[domain.Order](), nil
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd(defaultRuntimeFactory, nil)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "orderctl dev (unknown)\n", buf.String())
}

func TestProcessCommand_Success(t *testing.T) {
	out, err := run(t, defaultRuntimeFactory, nil,
		"process", "--id", "1", "--product", "Laptop", "--quantity", "2", "--unit-price", "1500")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed+"\n", out)
}

func snapshotEnv(t *testing.T) map[string]string {
	t.Helper()
	return map[string]string{"OMS_MEMORY_SNAPSHOT": filepath.Join(t.TempDir(), "orders.json")}
}

func TestProcessThenTotal_MemorySnapshot(t *testing.T) {
	env := snapshotEnv(t)

	out, err := run(t, defaultRuntimeFactory, env,
		"process", "--id", "1", "--product", "Bottle", "--quantity", "3", "--unit-price", "100")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed+"\n", out)

	out, err = run(t, defaultRuntimeFactory, env, "total", "--id", "1")
	require.NoError(t, err)
	assert.Equal(t, "300\n", out)
}

func TestProcessThenTotal_MemorySnapshotFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")

	_, err := run(t, defaultRuntimeFactory, nil,
		"process", "--id", "42", "--product", "Phone", "--quantity", "3", "--unit-price", "99.5",
		"--memory-snapshot", path)
	require.NoError(t, err)

	out, err := run(t, defaultRuntimeFactory, nil, "total", "--id", "42", "--memory-snapshot", path)
	require.NoError(t, err)
	assert.Equal(t, "298.5\n", out)
}

func TestTotalCommand_MemoryWithoutSnapshotFailsFast(t *testing.T) {
	_, err := run(t, defaultRuntimeFactory, nil,
		"process", "--id", "1", "--product", "Bottle", "--quantity", "3", "--unit-price", "100")
	require.NoError(t, err)

	out, err := run(t, defaultRuntimeFactory, nil, "total", "--id", "1")
	require.ErrorIs(t, err, errOrdersNotPersisted)
	assert.False(t, domain.IsEmptyOrder(err))
	assert.Empty(t, out)
}

func TestProcessCommand_SaveFailedIsNotAnError(t *testing.T) {
	rt := &app.Runtime{
		Service:  orders.NewOrderService(failingRepo{}),
		Health:   health.NewRegistry("test"),
		Registry: prometheus.NewRegistry(),
		Logger:   log.WithField("test", "save-failed"),
	}

	out, err := run(t, fixedRuntime(rt), nil,
		"process", "--id", "1", "--product", "Laptop", "--quantity", "1", "--unit-price", "1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessingFailed+"\n", out)
}

func TestProcessCommand_StrictPolicyRejectsEmptyProduct(t *testing.T) {
	_, err := run(t, defaultRuntimeFactory, nil,
		"process", "--id", "1", "--quantity", "1", "--unit-price", "1", "--validation-policy", "strict")
	require.Error(t, err)
	assert.True(t, domain.IsInvalidArgument(err))
	assert.Equal(t, domain.MsgProductNameRequired, err.Error())
}

func TestProcessCommand_RequiresID(t *testing.T) {
	_, err := run(t, defaultRuntimeFactory, nil, "process", "--product", "Laptop")
	require.Error(t, err)
}

func TestHealthCommand(t *testing.T) {
	out, err := run(t, defaultRuntimeFactory, nil, "health")
	require.NoError(t, err)

	var report health.Response
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, health.StatusHealthy, report.Status)
	assert.Contains(t, report.Checks, "storage")
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	env := map[string]string{"OMS_STORAGE_DRIVER": "sqlite"}

	_, err := run(t, defaultRuntimeFactory, env, "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage driver")

	_, err = run(t, defaultRuntimeFactory, env, "health", "--storage", "memory")
	require.NoError(t, err)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("validation_policy: strict\n"), 0o600))

	_, err := run(t, defaultRuntimeFactory, nil,
		"process", "--id", "1", "--quantity", "1", "--unit-price", "1", "--config", path)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidArgument(err))

	// Флаг сильнее файла.
	out, err := run(t, defaultRuntimeFactory, nil,
		"process", "--id", "1", "--quantity", "1", "--unit-price", "1", "--config", path,
		"--validation-policy", "null-only")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, domain.StatusProcessed))
}
