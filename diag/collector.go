package diag

import (
	"sync"
)

// Collector provides concurrent issue collection with precomputed
// severity counts.
//
// Collector is thread-safe. It provides O(1) severity queries via counts
// updated during collection.
//
// Limit behavior: when the issue limit is reached, additional issues are
// dropped but counted. Use [Collector.LimitReached] to detect truncation.
//
// Create a Collector with [NewCollector], add issues with
// [Collector.Collect], and snapshot with [Collector.Result].
type Collector struct {
	mu           sync.RWMutex
	issues       []Issue
	limit        int
	limitReached bool
	droppedCount int

	fatalCount   int
	errorCount   int
	warningCount int
	infoCount    int
}

// NoLimit is the sentinel value indicating unlimited issue collection.
const NoLimit = 0

// NewCollector creates a collector with an optional issue limit.
//
// A limit of 0 means no limit (use [NoLimit] for clarity). Negative
// values are normalized to 0.
func NewCollector(limit int) *Collector {
	if limit < 0 {
		limit = 0
	}
	return &Collector{limit: limit}
}

// Collect adds an issue to the collector.
//
// Panics if the issue is a zero value; use [NewIssue] to construct valid
// issues. The panic catches programmer errors where issues are built via
// struct literals.
func (c *Collector) Collect(issue Issue) {
	if issue.IsZero() {
		panic("diag.Collector.Collect: zero issue")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limit > 0 && len(c.issues) >= c.limit {
		c.limitReached = true
		c.droppedCount++
		return
	}
	c.issues = append(c.issues, issue)
	switch issue.Severity() {
	case Fatal:
		c.fatalCount++
	case Error:
		c.errorCount++
	case Warning:
		c.warningCount++
	case Info:
		c.infoCount++
	}
}

// OK reports whether no fatal or error issues have been collected.
func (c *Collector) OK() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fatalCount == 0 && c.errorCount == 0
}

// HasErrors reports whether any fatal or error issues were collected.
func (c *Collector) HasErrors() bool {
	return !c.OK()
}

// Len returns the number of stored issues.
func (c *Collector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.issues)
}

// LimitReached reports whether issues were dropped due to the limit.
func (c *Collector) LimitReached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.limitReached
}

// Result returns an immutable snapshot of the collected issues.
//
// The snapshot preserves collection order. Further Collect calls do not
// affect previously returned Results.
func (c *Collector) Result() *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	issues := make([]Issue, len(c.issues))
	copy(issues, c.issues)
	return &Result{
		issues:       issues,
		droppedCount: c.droppedCount,
		fatalCount:   c.fatalCount,
		errorCount:   c.errorCount,
		warningCount: c.warningCount,
		infoCount:    c.infoCount,
	}
}
