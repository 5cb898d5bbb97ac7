package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/washline/washline/jobs"
)

func TestBuildTaskReconcileAudit(t *testing.T) {
	task, err := BuildTask(jobs.TaskReconcileAudit, true)
	require.NoError(t, err)
	require.Equal(t, jobs.TaskReconcileAudit, task.Type())

	var payload jobs.ReconcileAuditPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.True(t, payload.DryRun)
}

func TestBuildTaskUnsupported(t *testing.T) {
	_, err := BuildTask("mail:send", false)
	require.ErrorContains(t, err, "unsupported job")
}

func TestNewJobsCLIRequiresAddr(t *testing.T) {
	_, err := NewJobsCLI(asynq.RedisClientOpt{})
	require.Error(t, err)
}

func TestNilJobsCLI(t *testing.T) {
	var c *JobsCLI
	_, err := c.Trigger(context.Background(), jobs.TaskReconcileAudit, false)
	require.ErrorContains(t, err, "client not configured")
	_, err = c.InspectQueue(context.Background())
	require.ErrorContains(t, err, "inspector not configured")
}
