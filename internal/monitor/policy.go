package monitor

import "time"

// Policy is the rate-limiting strategy applied before a triggered
// message may proceed. Two strategies exist: UniformPolicy gates every
// response identically with a generous hourly cap, MentionAwarePolicy
// exempts direct mentions from rate limits but keeps ambient chatter on
// a much tighter budget.
type Policy interface {
	// Name identifies the policy in logs and status output.
	Name() string
	// Cooldown is the pause enforced after each delivered reply.
	Cooldown() time.Duration
	// HourlyCap bounds counted responses per hourly window.
	HourlyCap() int
	// RateLimited reports whether cooldown and hourly-cap checks apply
	// to this response at all.
	RateLimited(directMention bool) bool
	// CountsTowardCap reports whether a delivered response increments
	// the hourly counter.
	CountsTowardCap(directMention bool) bool
}

// UniformPolicy treats every triggered message the same: everything is
// rate limited and everything counts, with a short cooldown.
type UniformPolicy struct {
	CooldownSeconds int
	MaxPerHour      int
}

// NewUniformPolicy returns the policy with its usual settings
// (3s cooldown, 50 responses per hour).
func NewUniformPolicy() UniformPolicy {
	return UniformPolicy{CooldownSeconds: 3, MaxPerHour: 50}
}

func (UniformPolicy) Name() string { return "uniform" }

func (p UniformPolicy) Cooldown() time.Duration {
	return time.Duration(p.CooldownSeconds) * time.Second
}

func (p UniformPolicy) HourlyCap() int { return p.MaxPerHour }

func (UniformPolicy) RateLimited(bool) bool { return true }

func (UniformPolicy) CountsTowardCap(bool) bool { return true }

// MentionAwarePolicy lets direct mentions through unconditionally and
// budgets only the unprompted responses.
type MentionAwarePolicy struct {
	CooldownSeconds int
	MaxPerHour      int
}

// NewMentionAwarePolicy returns the policy with its usual settings
// (30s cooldown, 5 ambient responses per hour).
func NewMentionAwarePolicy() MentionAwarePolicy {
	return MentionAwarePolicy{CooldownSeconds: 30, MaxPerHour: 5}
}

func (MentionAwarePolicy) Name() string { return "mention_aware" }

func (p MentionAwarePolicy) Cooldown() time.Duration {
	return time.Duration(p.CooldownSeconds) * time.Second
}

func (p MentionAwarePolicy) HourlyCap() int { return p.MaxPerHour }

func (MentionAwarePolicy) RateLimited(directMention bool) bool { return !directMention }

func (MentionAwarePolicy) CountsTowardCap(directMention bool) bool { return !directMention }

// PolicyByName returns the named policy with its default settings.
// Unknown names fall back to the uniform policy.
func PolicyByName(name string) Policy {
	if name == "mention_aware" {
		return NewMentionAwarePolicy()
	}
	return NewUniformPolicy()
}
