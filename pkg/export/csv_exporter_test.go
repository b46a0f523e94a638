package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	t.Run("projects rows onto headers", func(t *testing.T) {
		data := Dataset{
			Headers: []string{"Employee", "Total"},
			Rows: []map[string]string{
				{"Employee": "Ana", "Total": "195.00", "Ignored": "x"},
				{"Employee": "Ben"},
			},
			Footer: map[string]string{"Employee": "TOTAL", "Total": "195.00"},
		}
		out, err := exporter.Render(data)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(string(out)), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Employee,Total", lines[0])
		assert.Equal(t, "Ana,195.00", lines[1])
		// Missing cells render empty, extra keys are dropped.
		assert.Equal(t, "Ben,", lines[2])
		assert.Equal(t, "TOTAL,195.00", lines[3])
	})

	t.Run("no footer row without footer", func(t *testing.T) {
		out, err := exporter.Render(Dataset{Headers: []string{"A"}, Rows: []map[string]string{{"A": "1"}}})
		require.NoError(t, err)
		assert.Equal(t, "A\n1\n", string(out))
	})

	t.Run("headers are required", func(t *testing.T) {
		_, err := exporter.Render(Dataset{})
		assert.Error(t, err)
	})
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"Employee", "Total"},
		Rows:    []map[string]string{{"Employee": "Ana", "Total": "195.00"}},
		Footer:  map[string]string{"Employee": "TOTAL", "Total": "195.00"},
	}, "Payroll 2025-03-01 - 2025-03-31")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))

	_, err = exporter.Render(Dataset{}, "empty")
	assert.Error(t, err)
}
