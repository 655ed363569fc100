package services

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/config"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusCritical = "critical"

	depStatusUp       = "up"
	depStatusDown     = "down"
	depStatusDisabled = "disabled"

	defaultServiceName = "Vivekananda Public School ERP API"
	defaultVersion     = "1.0.0"
	probeTimeout       = 1500 * time.Millisecond
)

// HealthService answers the health endpoint: dependency probes plus a
// snapshot of the schedule policy the attendance engine is running under, so
// a misconfigured rest day or period table is visible without digging
// through the environment.
type HealthService struct {
	serviceName string
	version     string
	startTime   time.Time
}

// NewHealthService creates a HealthService; empty arguments fall back to the
// service defaults.
func NewHealthService(serviceName, version string) *HealthService {
	if strings.TrimSpace(serviceName) == "" {
		serviceName = defaultServiceName
	}
	if strings.TrimSpace(version) == "" {
		version = defaultVersion
	}
	return &HealthService{
		serviceName: serviceName,
		version:     version,
		startTime:   time.Now(),
	}
}

// HealthReport is the health endpoint response body.
type HealthReport struct {
	Status        string             `json:"status"`
	Service       string             `json:"service"`
	Version       string             `json:"version"`
	Environment   string             `json:"environment"`
	Time          time.Time          `json:"time"`
	UptimeSeconds float64            `json:"uptime_seconds"`
	UptimeHuman   string             `json:"uptime_human"`
	Dependencies  []DependencyStatus `json:"dependencies"`
	Policy        PolicySnapshot     `json:"policy"`
	Runtime       RuntimeMetrics     `json:"runtime"`
}

// DependencyStatus is the probe result for one external dependency.
type DependencyStatus struct {
	Name      string                 `json:"name"`
	Status    string                 `json:"status"`
	LatencyMs int64                  `json:"latency_ms"`
	Error     string                 `json:"error,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// PolicySnapshot reports the schedule rules currently in force.
type PolicySnapshot struct {
	PeriodsPerDay  int    `json:"periods_per_day"`
	BreakPeriods   []int  `json:"break_periods"`
	RestDay        string `json:"rest_day"`
	DefaultSubject string `json:"default_subject"`
	ReminderCron   string `json:"reminder_cron"`
}

// RuntimeMetrics is a small diagnostic block; pool stats ride on the mysql
// dependency entry.
type RuntimeMetrics struct {
	Goroutines     int    `json:"goroutines"`
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	SysBytes       uint64 `json:"sys_bytes"`
	NumGC          uint32 `json:"num_gc"`
}

// GetHealthReport probes the dependencies and assembles the report.
func (s *HealthService) GetHealthReport() HealthReport {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	report := HealthReport{
		Status:      statusOK,
		Service:     s.serviceName,
		Version:     s.version,
		Environment: currentEnvironment(),
		Time:        time.Now().UTC(),
		Policy:      policySnapshot(),
	}

	uptime := time.Since(s.startTime)
	if uptime < 0 {
		uptime = 0
	}
	report.UptimeSeconds = uptime.Seconds()
	report.UptimeHuman = humanizeDuration(uptime)

	dbDep, dbStatus := s.checkDatabase(ctx)
	report.Dependencies = append(report.Dependencies, dbDep)
	report.Status = combineStatus(report.Status, dbStatus)

	redisDep, redisStatus := s.checkRedis(ctx)
	report.Dependencies = append(report.Dependencies, redisDep)
	report.Status = combineStatus(report.Status, redisStatus)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	report.Runtime = RuntimeMetrics{
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: mem.HeapAlloc,
		SysBytes:       mem.Sys,
		NumGC:          mem.NumGC,
	}

	return report
}

// HTTPStatusForOverall maps a health status to an HTTP status code.
func (s *HealthService) HTTPStatusForOverall(status string) int {
	if status == statusCritical {
		return 503
	}
	return 200
}

// checkDatabase pings MySQL. The database is load-bearing for every
// operation, so a failed ping is critical.
func (s *HealthService) checkDatabase(ctx context.Context) (DependencyStatus, string) {
	dep := DependencyStatus{Name: "mysql"}

	if database.DB == nil {
		dep.Status = depStatusDown
		dep.Error = "database connection not initialised"
		return dep, statusCritical
	}
	sqlDB, err := database.DB.DB()
	if err != nil {
		dep.Status = depStatusDown
		dep.Error = fmt.Sprintf("sql DB handle error: %v", err)
		return dep, statusCritical
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	start := time.Now()
	err = sqlDB.PingContext(pingCtx)
	cancel()
	dep.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		dep.Status = depStatusDown
		dep.Error = err.Error()
		return dep, statusCritical
	}

	dep.Status = depStatusUp
	stats := sqlDB.Stats()
	dep.Details = map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"max_open_connections": stats.MaxOpenConnections,
	}
	return dep, statusOK
}

// checkRedis pings Redis and reports the backlog of the two queues it
// carries: the pending notification list and the write-behind activity-log
// cache. Redis loss only degrades; both pipelines fall back to direct DB
// writes.
func (s *HealthService) checkRedis(ctx context.Context) (DependencyStatus, string) {
	dep := DependencyStatus{Name: "redis"}
	useRedis := config.AppConfig != nil && config.AppConfig.UseRedisNotifications

	client := database.GetRedisClient()
	if client == nil {
		if useRedis {
			dep.Status = depStatusDown
			dep.Error = "redis client not initialised"
			return dep, statusDegraded
		}
		dep.Status = depStatusDisabled
		return dep, statusOK
	}

	pingCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	start := time.Now()
	err := client.Ping(pingCtx).Err()
	cancel()
	dep.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		dep.Status = depStatusDown
		dep.Error = err.Error()
		if useRedis {
			return dep, statusDegraded
		}
		return dep, statusOK
	}

	dep.Status = depStatusUp
	dep.Details = map[string]interface{}{
		"address":             client.Options().Addr,
		"notifications_queue": useRedis,
	}
	if pending, err := client.LLen(ctx, "notifications:queue").Result(); err == nil {
		dep.Details["pending_notifications"] = pending
	}
	if cached, err := client.ZCard(ctx, "logs:queue").Result(); err == nil {
		dep.Details["cached_activity_logs"] = cached
	}
	return dep, statusOK
}

// policySnapshot projects the configured school policy into the report.
func policySnapshot() PolicySnapshot {
	if config.AppConfig == nil {
		return PolicySnapshot{}
	}
	c := config.AppConfig

	breaks := make([]int, 0, len(c.BreakPeriods))
	for p := range c.BreakPeriods {
		breaks = append(breaks, p)
	}
	sort.Ints(breaks)

	return PolicySnapshot{
		PeriodsPerDay:  c.PeriodsPerDay,
		BreakPeriods:   breaks,
		RestDay:        c.RestDay.String(),
		DefaultSubject: c.DefaultSubjectLabel,
		ReminderCron:   c.ReminderCron,
	}
}

func currentEnvironment() string {
	if config.AppConfig == nil {
		return "unknown"
	}
	env := strings.TrimSpace(config.AppConfig.AppEnv)
	if env == "" {
		return "unknown"
	}
	return env
}

// combineStatus keeps the worst of the two statuses.
func combineStatus(current, candidate string) string {
	order := map[string]int{
		statusOK:       0,
		statusDegraded: 1,
		statusCritical: 2,
	}
	if _, ok := order[current]; !ok {
		current = statusOK
	}
	if v, ok := order[candidate]; ok && v > order[current] {
		return candidate
	}
	return current
}

func humanizeDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)

	units := []struct {
		span  time.Duration
		label string
	}{
		{24 * time.Hour, "d"},
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	}

	var parts []string
	for _, u := range units {
		n := d / u.span
		d %= u.span
		if n > 0 || (u.label == "s" && len(parts) == 0) {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.label))
		}
	}
	return strings.Join(parts, " ")
}
