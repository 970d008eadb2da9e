package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/dezero/internal/autodiff/ops"
	"github.com/born-ml/dezero/internal/pipeline"
	"github.com/born-ml/dezero/internal/serialization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in an empty working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_DefaultChainJSON(t *testing.T) {
	out, err := execute(t, "run", "--output", "json")
	require.NoError(t, err)

	var res pipeline.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Stages, 4)
	assert.Equal(t, "x", res.Stages[0].Name)
	assert.Equal(t, "square", res.Stages[1].Name)
	assert.Equal(t, "exp", res.Stages[2].Name)
	assert.Equal(t, "square", res.Stages[3].Name)

	assert.InDelta(t, 0.5, res.Stages[0].Data[0], 1e-12)
	assert.InDelta(t, math.Exp(0.5), res.Stages[3].Data[0], 1e-12)
	assert.InDelta(t, 2*math.Exp(0.5), res.Stages[0].Grad[0], 1e-12)
}

func TestRun_Table(t *testing.T) {
	out, err := execute(t, "run", "--ops", "sin,square", "--input", "0.1,0.2", "--seed", "1,2")
	require.NoError(t, err)
	assert.Contains(t, out, "Stage")
	assert.Contains(t, out, "sin")
	assert.Contains(t, out, "square")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ops: [exp]\ninput: [[0, 1]]\noutput: json\n"), 0o600))

	out, err := execute(t, "run", "--config", path)
	require.NoError(t, err)

	var res pipeline.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Stages, 2)
	assert.InDeltaSlice(t, []float64{1, math.E}, res.Output().Data, 1e-12)
	assert.InDeltaSlice(t, []float64{1, math.E}, res.Input().Grad, 1e-12)
}

func TestRun_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.safetensors")
	_, err := execute(t, "run", "--ops", "square,exp", "--input", "0.5,1", "--save", path)
	require.NoError(t, err)

	tensors, meta, err := serialization.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "square,exp", meta["ops"])
	require.Contains(t, tensors, "02.exp.data")
	assert.InDeltaSlice(t, []float64{math.Exp(0.25), math.E}, tensors["02.exp.data"].Data, 1e-12)
	assert.InDeltaSlice(t, []float64{math.Exp(0.25), 2 * math.E}, tensors["00.x.grad"].Data, 1e-12)
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t, "run", "--ops", "square,cube")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")

	_, err = execute(t, "run", "--input", "1,2", "--seed", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match input shape")

	_, err = execute(t, "run", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "check", "--ops", "tanh,sigmoid", "--input", "-0.5,0.25,1")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "Analytic")
}

func TestCheck_JSON(t *testing.T) {
	out, err := execute(t, "check", "--output", "json")
	require.NoError(t, err)

	var res pipeline.CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Passed)
	assert.InDelta(t, 1e-4, res.Epsilon, 1e-18)
	assert.LessOrEqual(t, res.MaxAbsDiff, res.Tolerance)
}

func TestCheck_Fails(t *testing.T) {
	out, err := execute(t, "check", "--ops", "exp", "--input", "1", "--tolerance", "1e-14")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gradient check failed")
	assert.Contains(t, out, "FAIL")
}

func TestCheck_FailsOutsideDomain(t *testing.T) {
	out, err := execute(t, "check", "--ops", "log", "--input=-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gradient check failed")
	assert.Contains(t, out, "FAIL")
}

func TestMinimize(t *testing.T) {
	out, err := execute(t, "minimize", "--ops", "square", "--input", "2,-1", "--steps", "60", "--output", "json")
	require.NoError(t, err)

	var res pipeline.MinimizeResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "sgd", res.Optimizer)
	assert.Len(t, res.Steps, 60)
	assert.Less(t, res.FinalLoss, 1e-8)
	assert.Equal(t, []float64{2, -1}, res.Start)
}

func TestMinimize_Table(t *testing.T) {
	out, err := execute(t, "minimize", "--ops", "sin", "--input", "1", "--optimizer", "adam", "--lr", "0.05", "--steps", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Loss")
	assert.Contains(t, out, "adam: [1] -> ")
	assert.Contains(t, out, "99")
}

func TestOps(t *testing.T) {
	out, err := execute(t, "ops")
	require.NoError(t, err)
	for _, name := range ops.Names() {
		assert.Contains(t, out, name)
		_, ok := derivatives[name]
		assert.True(t, ok, "no derivative listed for %s", name)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dezero "+Version)
}

func TestFormatValues(t *testing.T) {
	assert.Equal(t, "-", formatValues(nil))
	assert.Equal(t, "[]", formatValues([]float64{}))
	assert.Equal(t, "[0.5 -2]", formatValues([]float64{0.5, -2}))
}
