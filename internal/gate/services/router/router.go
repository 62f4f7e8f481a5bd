// Package router is the policy compiler and enforcement router. It combines
// schedule, quota, and temporary-override state per site, routes each site
// into a static or dynamic enforcement path, and recompiles the static rule
// set wholesale on every rebuild.
package router

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sitegate/sitegate/internal/gate/common/clock"
	"github.com/sitegate/sitegate/internal/gate/common/dayclock"
	"github.com/sitegate/sitegate/internal/gate/common/hostutil"
	"github.com/sitegate/sitegate/internal/gate/common/log"
	"github.com/sitegate/sitegate/internal/gate/domain"
	"github.com/sitegate/sitegate/internal/gate/gateways/netrules"
	"github.com/sitegate/sitegate/internal/gate/quota"
	"github.com/sitegate/sitegate/internal/gate/schedule"
	"github.com/sitegate/sitegate/internal/gate/strictness"
)

// RebuildReport summarizes one policy rebuild. Capacity exhaustion is
// reported here, non-fatally: already-compiled sites stay enforced.
type RebuildReport struct {
	Compiled        int      // static rules installed
	Dynamic         []string // hosts routed to live evaluation
	Whitelisted     []string // hosts excluded by a live override
	SkippedCapacity []string // hosts dropped because the ID range ran out
	Version         uint64
}

// Router wires the policy source, usage store, site index, and rule sink
// into the engine's control surface.
type Router struct {
	mu       sync.Mutex // serializes rebuilds; last writer wins
	policies PolicySource
	store    UsageStore
	index    SiteIndex
	sink     netrules.RuleSink
	clock    clock.Clock
	logger   log.Logger
}

// Options collects the Router's collaborators.
type Options struct {
	Policies PolicySource
	Store    UsageStore
	Index    SiteIndex
	Sink     netrules.RuleSink
	Clock    clock.Clock
	Logger   log.Logger
}

// New constructs a Router. Clock defaults to the real clock and Logger to
// the global logger when unset.
func New(opts Options) *Router {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	return &Router{
		policies: opts.Policies,
		store:    opts.Store,
		index:    opts.Index,
		sink:     opts.Sink,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
}

// RebuildPolicy recomputes the full enforcement state from the current
// persisted configuration and swaps it in. It is idempotent and callable
// from any trigger; concurrent callers serialize and the last rebuild wins.
// A failed rebuild leaves the previously installed rule set in place.
func (r *Router) RebuildPolicy() (RebuildReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var report RebuildReport
	now := r.clock.Now()

	sites, err := r.policies.Sites()
	if err != nil {
		return report, fmt.Errorf("rebuild: reading policy: %w", err)
	}
	entries, err := r.store.AllWhitelist()
	if err != nil {
		return report, fmt.Errorf("rebuild: reading whitelist: %w", err)
	}
	live := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Live(now) {
			live[hostutil.Canonical(e.Host)] = true
		}
	}

	// Deterministic order so identical configuration compiles to an
	// identical rule set.
	sort.Slice(sites, func(i, j int) bool { return sites[i].Host < sites[j].Host })

	r.index.Swap(sites)

	rules := make([]domain.CompiledRule, 0, len(sites))
	nextID := domain.MinCompiledRuleID
	for _, s := range sites {
		switch {
		case live[s.Host]:
			report.Whitelisted = append(report.Whitelisted, s.Host)
		case s.HasRules():
			// The matcher cannot see counters; these sites always go to
			// dynamic evaluation.
			report.Dynamic = append(report.Dynamic, s.Host)
		case !schedule.IsActive(s.Schedule, now):
			// outside its blocking window
		case nextID > domain.MaxCompiledRuleID:
			report.SkippedCapacity = append(report.SkippedCapacity, s.Host)
		default:
			rule, err := domain.NewCompiledRule(nextID, netrules.BuildPattern(s.Host))
			if err != nil {
				return report, fmt.Errorf("rebuild: compiling %q: %w", s.Host, err)
			}
			rules = append(rules, rule)
			nextID++
		}
	}

	if err := r.sink.Install(rules); err != nil {
		return report, fmt.Errorf("rebuild: installing rules: %w", err)
	}
	report.Compiled = len(rules)

	version, _ := r.store.Meta()
	report.Version = version + 1
	if err := r.store.SetMeta(report.Version, now.Unix()); err != nil {
		// Best effort; the installed set is already live.
		r.logger.Warn(map[string]any{"error": err}, "failed to record rebuild metadata")
	}

	if len(report.SkippedCapacity) > 0 {
		r.logger.Warn(map[string]any{
			"skipped": report.SkippedCapacity,
			"max_id":  domain.MaxCompiledRuleID,
		}, "rule capacity exhausted; some sites not statically enforced")
	}
	r.logger.Info(map[string]any{
		"compiled":    report.Compiled,
		"dynamic":     len(report.Dynamic),
		"whitelisted": len(report.Whitelisted),
		"version":     report.Version,
	}, "policy rebuilt")
	return report, nil
}

// EvaluateNavigation decides one navigation to a host and updates the usage
// counters. The visit increment is durably written before the decision is
// returned; if the write fails, the decision fails closed.
func (r *Router) EvaluateNavigation(host string) (domain.NavDecision, error) {
	cn := hostutil.Canonical(host)
	site, ok := r.index.Lookup(cn)
	if !ok {
		return domain.AllowNavigation(domain.ReasonNotProtected, ""), nil
	}
	now := r.clock.Now()

	if entry, found, err := r.store.Whitelist(site.Host); err != nil {
		// Transient read failure: treat as not whitelisted rather than
		// failing open.
		r.logger.Warn(map[string]any{"host": site.Host, "error": err}, "whitelist read failed")
	} else if found && entry.Live(now) {
		return domain.AllowNavigation(domain.ReasonWhitelisted, site.Host), nil
	}

	if !site.HasRules() {
		if schedule.IsActive(site.Schedule, now) {
			return domain.BlockNavigation(domain.ReasonScheduleActive, site.Host), nil
		}
		return domain.AllowNavigation(domain.ReasonScheduleInactive, site.Host), nil
	}

	// Dynamic path: a schedule that exists and is inactive suspends quota
	// enforcement entirely, without consuming a visit.
	if site.Schedule != nil && !schedule.IsActive(site.Schedule, now) {
		return domain.AllowNavigation(domain.ReasonScheduleInactive, site.Host), nil
	}

	before, err := r.store.RecordVisit(site.Host, now)
	if err != nil {
		r.logger.Error(map[string]any{"host": site.Host, "error": err}, "visit write failed; blocking")
		return domain.BlockNavigation(domain.ReasonStorageFailure, site.Host), err
	}
	if quota.ShouldBlock(site.Rules, before, dayclock.DateKey(now)) {
		return domain.BlockNavigation(domain.ReasonQuotaExceeded, site.Host), nil
	}
	return domain.AllowNavigation(domain.ReasonQuotaAvailable, site.Host), nil
}

// RecordTimeTick accumulates foreground minutes for a protected host.
// Unprotected hosts are ignored.
func (r *Router) RecordTimeTick(host string, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	site, ok := r.index.Lookup(hostutil.Canonical(host))
	if !ok {
		return nil
	}
	return r.store.AddTimeSpent(site.Host, minutes, r.clock.Now())
}

// AddWhitelist creates a temporary override suspending enforcement for one
// host, then rebuilds so the static set drops it.
func (r *Router) AddWhitelist(host string, d time.Duration) error {
	entry, err := domain.NewWhitelistEntry(hostutil.Canonical(host), r.clock.Now().Add(d))
	if err != nil {
		return err
	}
	if err := r.store.PutWhitelist(entry); err != nil {
		return err
	}
	_, err = r.RebuildPolicy()
	return err
}

// ExpireWhitelist purges expired overrides and, when any were removed,
// rebuilds so their rules come back into force.
func (r *Router) ExpireWhitelist(now time.Time) (int, error) {
	purged, err := r.store.ExpireWhitelist(now)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		r.logger.Info(map[string]any{"purged": purged}, "expired whitelist entries")
		if _, err := r.RebuildPolicy(); err != nil {
			return purged, err
		}
	}
	return purged, nil
}

// ScoreScheduleChange classifies a proposed schedule edit as stricter,
// same, or less strict.
func (r *Router) ScoreScheduleChange(old, new domain.Schedule) strictness.Verdict {
	return strictness.CompareSchedules(old, new)
}

// ScoreRulesChange classifies a proposed rule-set edit.
func (r *Router) ScoreRulesChange(old, new []domain.ConditionalRule) strictness.Verdict {
	return strictness.CompareRules(old, new)
}
