// Package metrics counts use case executions and exposes them in the
// Prometheus text format.
package metrics

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

// DefaultNamespace prefixes every metric name when none is given.
const DefaultNamespace = "hexa"

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// labelEscaper applies the only escapes the text exposition format defines.
var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func label(v string) string { return `"` + labelEscaper.Replace(v) + `"` }

type useCaseCounters struct {
	total      atomic.Int64
	failed     atomic.Int64
	latencySum atomic.Int64 // nanoseconds

	mu       sync.Mutex
	failures map[string]int64
}

// Metrics collects per use case counters. It satisfies usecase.Observer.
type Metrics struct {
	mu       sync.RWMutex
	useCases map[string]*useCaseCounters

	namespace string
	version   string
	startTime time.Time
}

// New returns an empty collector. namespace is sanitized to a valid metric
// prefix and falls back to DefaultNamespace.
func New(namespace, version string) *Metrics {
	namespace = invalidNameChars.ReplaceAllString(strings.TrimSpace(namespace), "_")
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Metrics{
		useCases:  make(map[string]*useCaseCounters),
		namespace: namespace,
		version:   version,
		startTime: time.Now(),
	}
}

func (m *Metrics) counters(name string) *useCaseCounters {
	m.mu.RLock()
	c := m.useCases[name]
	m.mu.RUnlock()
	if c != nil {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c = m.useCases[name]; c == nil {
		c = &useCaseCounters{failures: make(map[string]int64)}
		m.useCases[name] = c
	}
	return c
}

// ObserveExecution records one finished execution of useCase.
func (m *Metrics) ObserveExecution(useCase string, elapsed time.Duration, failure *errors.Error) {
	c := m.counters(useCase)
	c.total.Add(1)
	c.latencySum.Add(elapsed.Nanoseconds())
	if failure == nil {
		return
	}
	c.failed.Add(1)
	c.mu.Lock()
	c.failures[failure.ErrorCode()]++
	c.mu.Unlock()
}

// UseCaseSnapshot is the state of one use case at snapshot time.
type UseCaseSnapshot struct {
	Executions     int64
	Failures       int64
	FailuresByCode map[string]int64
	TotalLatency   time.Duration
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Version  string
	Uptime   time.Duration
	UseCases map[string]UseCaseSnapshot
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := Snapshot{
		Version:  m.version,
		Uptime:   time.Since(m.startTime),
		UseCases: make(map[string]UseCaseSnapshot, len(m.useCases)),
	}
	for name, c := range m.useCases {
		c.mu.Lock()
		byCode := make(map[string]int64, len(c.failures))
		for code, n := range c.failures {
			byCode[code] = n
		}
		c.mu.Unlock()
		out.UseCases[name] = UseCaseSnapshot{
			Executions:     c.total.Load(),
			Failures:       c.failed.Load(),
			FailuresByCode: byCode,
			TotalLatency:   time.Duration(c.latencySum.Load()),
		}
	}
	return out
}

// Handler serves the counters in the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(m.render()))
	})
}

func (m *Metrics) render() string {
	snap := m.Snapshot()
	ns := m.namespace

	names := make([]string, 0, len(snap.UseCases))
	for name := range snap.UseCases {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	header := func(metric, help, kind string) {
		fmt.Fprintf(&sb, "# HELP %s_%s %s\n", ns, metric, help)
		fmt.Fprintf(&sb, "# TYPE %s_%s %s\n", ns, metric, kind)
	}

	header("info", "Build information", "gauge")
	fmt.Fprintf(&sb, "%s_info{version=%s} 1\n\n", ns, label(snap.Version))

	header("uptime_seconds", "Uptime in seconds", "gauge")
	fmt.Fprintf(&sb, "%s_uptime_seconds %.2f\n\n", ns, snap.Uptime.Seconds())

	header("usecase_executions_total", "Use case executions", "counter")
	for _, name := range names {
		fmt.Fprintf(&sb, "%s_usecase_executions_total{use_case=%s} %d\n", ns, label(name), snap.UseCases[name].Executions)
	}
	sb.WriteString("\n")

	header("usecase_failures_total", "Failed use case executions by error code", "counter")
	for _, name := range names {
		byCode := snap.UseCases[name].FailuresByCode
		codes := make([]string, 0, len(byCode))
		for code := range byCode {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Fprintf(&sb, "%s_usecase_failures_total{use_case=%s,code=%s} %d\n", ns, label(name), label(code), byCode[code])
		}
	}
	sb.WriteString("\n")

	header("usecase_duration_milliseconds", "Use case execution duration", "summary")
	for _, name := range names {
		uc := snap.UseCases[name]
		ms := float64(uc.TotalLatency) / float64(time.Millisecond)
		fmt.Fprintf(&sb, "%s_usecase_duration_milliseconds_count{use_case=%s} %d\n", ns, label(name), uc.Executions)
		fmt.Fprintf(&sb, "%s_usecase_duration_milliseconds_sum{use_case=%s} %s\n", ns, label(name), strconv.FormatFloat(ms, 'f', -1, 64))
	}
	return sb.String()
}
