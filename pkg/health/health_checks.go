package health

import (
	"runtime"
	"time"
)

// SimpleCheck creates a health check that always returns healthy
func SimpleCheck(name string) CheckFunc {
	return func() Check {
		return Check{Name: name, Status: StatusHealthy}
	}
}

// ReportCheck reports whether a scoring report is available. It is
// unhealthy before the first run and degraded when the report is older
// than maxAge. A zero maxAge never degrades.
func ReportCheck(lastRun func() (time.Time, bool), maxAge time.Duration) CheckFunc {
	return func() Check {
		check := Check{Name: "report", Details: make(map[string]any)}

		finished, ok := lastRun()
		if !ok {
			check.Status = StatusUnhealthy
			check.Message = "No report computed yet"
			return check
		}

		age := time.Since(finished)
		check.Details["age_seconds"] = age.Seconds()
		if maxAge > 0 && age > maxAge {
			check.Status = StatusDegraded
			check.Message = "Report is stale"
			return check
		}

		check.Status = StatusHealthy
		check.Message = "Report available"
		return check
	}
}

// RunCheck reports the outcome of the most recent scoring run. A failed
// rerun degrades health while an older report is still served.
func RunCheck(lastError func() error) CheckFunc {
	return func() Check {
		check := Check{Name: "last_run"}
		if err := lastError(); err != nil {
			check.Status = StatusDegraded
			check.Message = err.Error()
			return check
		}
		check.Status = StatusHealthy
		return check
	}
}

// MemoryCheck degrades when the Go heap exceeds limitBytes. A zero limit
// only reports usage.
func MemoryCheck(limitBytes uint64) CheckFunc {
	return func() Check {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		check := Check{
			Name: "memory",
			Details: map[string]any{
				"alloc_bytes": m.Alloc,
				"sys_bytes":   m.Sys,
			},
		}

		if limitBytes > 0 && m.Alloc > limitBytes {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}
