package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoguard/backend/internal/domain"
)

const lowImpactYAML = `diet: vegan
transport: walk/bicycle
air_travel: never
heating_source: electricity
monthly_grocery_bill: 100
new_clothes_monthly: 0
waste_bag_size: small
waste_bag_weekly_count: 1
recycling: [Paper]
energy_efficiency: "Yes"
`

func mockEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LIFESTYLE_SERVICE_URL", "")
	t.Setenv("VISION_SERVICE_URL", "")
	t.Setenv("SENSOR_SERVICE_URL", "")
	t.Setenv("LIFESTYLE_DELAY", "0")
	t.Setenv("VISION_DELAY", "0")
	t.Setenv("SENSOR_DISABLED", "true")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScore_YAML(t *testing.T) {
	mockEnv(t)
	path := writeFile(t, "answers.yaml", lowImpactYAML)

	out, err := run(t, "score", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Total estimated footprint: 1,352.0 kg/yr (Low)")
	assert.Contains(t, out, "Requires 63 trees")
}

func TestScore_JSONWithImage(t *testing.T) {
	mockEnv(t)
	answers := writeFile(t, "answers.json", `{"diet": "omnivore", "transport": "public"}`)
	image := writeFile(t, "bin.png", "\x89PNG\r\n\x1a\n")

	out, err := run(t, "score", "-f", answers, "--image", image, "--json")
	require.NoError(t, err)

	var sc domain.Scorecard
	require.NoError(t, json.Unmarshal([]byte(out), &sc))
	assert.Len(t, sc.VisionLog, 2)
	assert.Nil(t, sc.Sensor)
	assert.False(t, sc.Fallback)
}

func TestScore_RejectsInvalidAnswers(t *testing.T) {
	mockEnv(t)
	path := writeFile(t, "answers.yaml", "diet: carnivore\n")

	_, err := run(t, "score", "-f", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)

	_, err = run(t, "score", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "score: failed to read answers")

	_, err = run(t, "score")
	assert.Error(t, err, "--file is required")
}

func TestScore_RejectsInfiniteAmounts(t *testing.T) {
	mockEnv(t)
	path := writeFile(t, "answers.yaml", "vehicle_monthly_distance_km: .inf\n")

	_, err := run(t, "score", "-f", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)
	assert.ErrorContains(t, err, "vehicle_monthly_distance_km")
}

func TestScore_HugeAmountsStillScore(t *testing.T) {
	mockEnv(t)
	path := writeFile(t, "answers.yaml", "monthly_grocery_bill: 1.5e308\n")

	out, err := run(t, "score", "-f", path, "--json")
	require.NoError(t, err)

	var sc domain.Scorecard
	require.NoError(t, json.Unmarshal([]byte(out), &sc))
	assert.Equal(t, domain.ClassificationHigh, sc.Classification)
}

func TestSchema(t *testing.T) {
	out, err := run(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Personal Information")
	assert.Contains(t, out, "diet (choice): vegan | vegetarian | pescatarian | omnivore")
	assert.NotContains(t, out, "Waste Image")

	out, err = run(t, "schema", "--image", "--json")
	require.NoError(t, err)
	var steps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &steps))
	assert.Len(t, steps, 5)
}
