package main

import (
	"github.com/robfig/cron/v3"

	"space-traveling/logger"
)

// cronLogger routes cron's own messages into the service log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.InfoWithFields("cron: "+msg, kvFields(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := kvFields(keysAndValues)
	fields["error"] = err.Error()
	logger.ErrorWithFields("cron: "+msg, fields)
}

func kvFields(kv []any) logger.Fields {
	fields := logger.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			fields[k] = kv[i+1]
		}
	}
	return fields
}

// jobWrappers keep a slow import from overlapping the next tick and stop a
// panicking run from taking the scheduler down. Recover sits inside the skip
// guard so a panic still frees the slot for the next run.
func jobWrappers() []cron.JobWrapper {
	l := cronLogger{}
	return []cron.JobWrapper{cron.SkipIfStillRunning(l), cron.Recover(l)}
}

func newScheduler(schedule string, job func()) (*cron.Cron, error) {
	c := cron.New(cron.WithLogger(cronLogger{}), cron.WithChain(jobWrappers()...))
	if _, err := c.AddFunc(schedule, job); err != nil {
		return nil, err
	}
	return c, nil
}
