package domain

// Action is the outcome of comparing a fresh quote against the baseline.
// Kind is only meaningful when Notify is set.
type Action struct {
	Notify  bool
	Kind    NotificationKind
	Persist bool
}

// NoAction leaves both the notifier and the store untouched.
var NoAction = Action{}

// Decide compares current against the previous baseline using a relative
// threshold band. Both band edges count as a breach. A nil, non-positive or
// non-finite baseline cannot form a band, so it is handled like an empty store.
func Decide(previous *QuoteRecord, current QuoteRecord, threshold float64) Action {
	if previous == nil || !ValidRate(previous.Value) {
		return Action{Notify: true, Kind: NotificationFirst, Persist: true}
	}

	diff := previous.Value * threshold
	low := previous.Value - diff
	high := previous.Value + diff

	switch {
	case current.Value <= low:
		return Action{Notify: true, Kind: NotificationDown, Persist: true}
	case current.Value >= high:
		return Action{Notify: true, Kind: NotificationUp, Persist: true}
	default:
		return NoAction
	}
}
