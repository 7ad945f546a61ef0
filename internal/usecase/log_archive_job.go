package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	pkgch "CryptoLevels/pkg/clickhouse"
	applogger "CryptoLevels/pkg/logger"
	pkgqueue "CryptoLevels/pkg/queue"
)

const LogsMsgType = "logs.aggregated"

// LogArchiveJob drains aggregated log batches from the job queue into the
// ClickHouse app_logs table.
type LogArchiveJob struct {
	db *sql.DB
}

func NewLogArchiveJob(ch *pkgch.Client) *LogArchiveJob {
	return &LogArchiveJob{db: ch.DB()}
}

func (j *LogArchiveJob) Name() string { return "log_archive" }
func (j *LogArchiveJob) Type() string { return LogsMsgType }

func (j *LogArchiveJob) Handle(ctx context.Context, payload interface{}) error {
	entries, err := pkgqueue.ParsePayload[[]applogger.AggregatedLogEntry](payload)
	if err != nil {
		return fmt.Errorf("parse log batch: %w", err)
	}
	if len(*entries) == 0 {
		return nil
	}

	values := make([]string, 0, len(*entries))
	args := make([]interface{}, 0, len(*entries)*6)
	for _, e := range *entries {
		values = append(values, "(?, ?, ?, ?, ?, ?)")
		args = append(args, e.Level, e.Message, e.Caller, uint32(e.Count), e.FirstSeen, e.LastSeen)
	}
	q := "INSERT INTO cryptolevels.app_logs (level, message, caller, count, first_seen, last_seen) VALUES " + strings.Join(values, ",")
	if _, err := j.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("archive logs: %w", err)
	}
	return nil
}

var _ pkgqueue.Job = (*LogArchiveJob)(nil)
