// Package inmem provides in-memory repositories for tests. Writes are
// guarded by a single mutex so the overlap check and the insert are atomic,
// mirroring the exclusion constraint in Postgres.
package inmem

import (
	"sort"
	"sync"
	"time"

	"github.com/codingships/honestSpanish-sub001/internal/model"
)

type DB struct {
	mu sync.Mutex

	rules      map[int64]*model.AvailabilityRule
	sessions   map[int64]*model.Session
	timezones  map[int64]string
	nextRuleID int64
	nextSessID int64
}

func NewDB() *DB {
	return &DB{
		rules:     make(map[int64]*model.AvailabilityRule),
		sessions:  make(map[int64]*model.Session),
		timezones: make(map[int64]string),
	}
}

func (db *DB) allocRuleID() int64 {
	db.nextRuleID++
	return db.nextRuleID
}

func (db *DB) allocSessionID() int64 {
	db.nextSessID++
	return db.nextSessID
}

func copyRule(rule *model.AvailabilityRule) *model.AvailabilityRule {
	clone := *rule
	return &clone
}

func copySession(session *model.Session) *model.Session {
	clone := *session
	return &clone
}

func sortSessionsByStart(sessions []*model.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ScheduledAt.Before(sessions[j].ScheduledAt)
	})
}

var nowFunc = time.Now
