// Package hooks provides the built-in guard hook implementations.
package hooks

// Decision is the outcome of a guard check.
type Decision int

const (
	// DecisionAllow lets the tool call proceed.
	DecisionAllow Decision = iota
	// DecisionAsk surfaces the call for user approval.
	DecisionAsk
	// DecisionBlock denies the tool call.
	DecisionBlock
)

// CheckResult pairs a decision with the reason shown to the user.
type CheckResult struct {
	Decision Decision
	Reason   string
}

func allow() CheckResult {
	return CheckResult{Decision: DecisionAllow}
}

func ask(reason string) CheckResult {
	return CheckResult{Decision: DecisionAsk, Reason: reason}
}

func block(reason string) CheckResult {
	return CheckResult{Decision: DecisionBlock, Reason: reason}
}
