package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncoach/internal/logger"
)

func TestEmbeddedStageFile(t *testing.T) {
	data, err := readStageFile("")
	require.NoError(t, err)
	order, err := parseStageOrder(data)
	require.NoError(t, err)
	assert.Equal(t, fallbackStageOrder, order)
}

func TestParseStageOrder(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    []string
		wantErr string
	}{
		{
			name: "disabled stage",
			yaml: "pipeline: coach\nstages:\n  - name: learning_path\n  - name: progress_summary\n    enabled: false\n  - name: schedule\n",
			want: []string{StageLearningPath, StageSchedule},
		},
		{
			name:    "unknown stage",
			yaml:    "pipeline: coach\nstages:\n  - name: learning_path\n  - name: send_email\n",
			wantErr: "unknown stage",
		},
		{
			name:    "duplicate",
			yaml:    "pipeline: coach\nstages:\n  - name: schedule\n  - name: schedule\n",
			wantErr: "duplicate",
		},
		{
			name:    "out of order",
			yaml:    "pipeline: coach\nstages:\n  - name: schedule\n  - name: learning_path\n",
			wantErr: "out of order",
		},
		{
			name:    "wrong pipeline",
			yaml:    "pipeline: other\nstages:\n  - name: schedule\n",
			wantErr: "unexpected pipeline",
		},
		{
			name:    "no stages",
			yaml:    "pipeline: coach\n",
			wantErr: "no stages",
		},
		{
			name:    "not yaml",
			yaml:    "pipeline: [coach",
			wantErr: "yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStageOrder([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadStageOrder_FallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline: coach\nstages:\n  - name: bogus\n"), 0o644))
	assert.Equal(t, fallbackStageOrder, loadStageOrder(path, logger.NewNop()))

	assert.Equal(t, fallbackStageOrder, loadStageOrder(filepath.Join(t.TempDir(), "missing.yaml"), logger.NewNop()))

	require.NoError(t, os.WriteFile(path, []byte("pipeline: coach\nstages:\n  - name: learning_path\n"), 0o644))
	assert.Equal(t, []string{StageLearningPath}, loadStageOrder(path, logger.NewNop()))
}
