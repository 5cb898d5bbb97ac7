package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReconcileAudit re-sums invoices for every order and repairs drifted ledgers.
	TaskReconcileAudit = "ledger:reconcile_audit"
)

// ReconcileAuditPayload parameterises an audit run.
type ReconcileAuditPayload struct {
	// Limit caps how many drifted orders are handled per run.
	Limit  int  `json:"limit,omitempty"`
	DryRun bool `json:"dry_run,omitempty"`
}

// NewReconcileAuditTask constructs an Asynq task.
func NewReconcileAuditTask(payload ReconcileAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReconcileAudit, data, asynq.MaxRetry(3)), nil
}
