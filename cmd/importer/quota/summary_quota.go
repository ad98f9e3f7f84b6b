package quota

import (
	"context"
	"sync"
	"time"
	_ "time/tzdata" // reset zone lookup in minimal containers

	"golang.org/x/time/rate"

	"space-traveling/config"
)

// Gemini free-tier quotas roll over at midnight Pacific time.
const defaultResetZone = "America/Los_Angeles"

// dailyBudget counts calls per calendar day in loc.
type dailyBudget struct {
	mu    sync.Mutex
	limit int
	used  int
	day   string
	loc   *time.Location
}

func (b *dailyBudget) take(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if day := now.In(b.loc).Format(time.DateOnly); day != b.day {
		b.day, b.used = day, 0
	}
	if b.limit > 0 && b.used >= b.limit {
		return false
	}
	b.used++
	return true
}

func (b *dailyBudget) refund() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.used > 0 {
		b.used--
	}
}

func (b *dailyBudget) remaining(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.limit <= 0 {
		return -1
	}
	if now.In(b.loc).Format(time.DateOnly) != b.day {
		return b.limit
	}
	return b.limit - b.used
}

// SummaryQuotaLimiter paces summary calls to the per-minute rate and stops
// them once the daily budget is spent. State is in memory only.
type SummaryQuotaLimiter struct {
	pace   *rate.Limiter
	budget *dailyBudget
	now    func() time.Time
}

// NewSummaryQuotaLimiter builds a limiter from config. Values <= 0 disable that limit.
func NewSummaryQuotaLimiter(q config.SummaryQuotaConfig) *SummaryQuotaLimiter {
	pace := rate.NewLimiter(rate.Inf, 1)
	if q.RequestsPerMinute > 0 {
		pace = rate.NewLimiter(rate.Every(time.Minute/time.Duration(q.RequestsPerMinute)), 1)
	}

	zone := q.ResetTimezone
	if zone == "" {
		zone = defaultResetZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}

	return &SummaryQuotaLimiter{
		pace:   pace,
		budget: &dailyBudget{limit: max(0, q.RequestsPerDay), loc: loc},
		now:    time.Now,
	}
}

// WaitAndReserve returns (false, nil) when today's budget is spent, so the
// caller falls back to the feed description. Otherwise it waits for the next
// per-minute slot; a cancelled wait gives the budget back.
func (l *SummaryQuotaLimiter) WaitAndReserve(ctx context.Context) (bool, error) {
	if !l.budget.take(l.now()) {
		return false, nil
	}
	if err := l.pace.Wait(ctx); err != nil {
		l.budget.refund()
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, err
	}
	return true, nil
}

// Remaining reports today's unused calls, or -1 without a daily limit.
func (l *SummaryQuotaLimiter) Remaining() int {
	return l.budget.remaining(l.now())
}
