package eventstore

import (
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter selects the events of one dynamic event stream.
// FilterItem(s) are OR-ed; inside an item the event types and the predicates are AND-ed.
type Filter struct {
	items []FilterItem
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// IsEmpty reports whether the Filter matches every event.
func (f Filter) IsEmpty() bool {
	for _, item := range f.items {
		if len(item.eventTypes) > 0 || len(item.predicates) > 0 {
			return false
		}
	}

	return true
}

// Matches evaluates the Filter against a single event in memory.
// Predicates compare top-level payload fields by their string value, which is what the
// JSON containment query of the postgres engine does for string-typed fields.
func (f Filter) Matches(event StorableEvent) bool {
	if f.IsEmpty() {
		return true
	}

	var payload map[string]any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(event.PayloadJSON, &payload); err != nil {
		return false
	}

	for _, item := range f.items {
		if item.matches(event.EventType, payload) {
			return true
		}
	}

	return false
}

/***** FilterItem *****/

type FilterItem struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

func (fi FilterItem) matches(eventType string, payload map[string]any) bool {
	if len(fi.eventTypes) > 0 && !slices.Contains(fi.eventTypes, eventType) {
		return false
	}

	if len(fi.predicates) == 0 {
		return true
	}

	matched := 0
	for _, p := range fi.predicates {
		if v, ok := payload[p.key].(string); ok && v == p.val {
			matched++
		}
	}

	if fi.allPredicatesMustMatch {
		return matched == len(fi.predicates)
	}

	return matched > 0
}

/***** FilterPredicate *****/

// FilterPredicate is a key/value condition on the top level of the event payload.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

// P is shorthand for building a FilterPredicate, e.g. P("PatronID", id).
func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds an engine-agnostic Filter. Engines translate it to their query language.
// Only combinations that are useful for deciding on a loan or hold can be expressed:
//
//   - empty filter
//   - (eventType OR eventType...)
//   - (predicate OR predicate...) / (predicate AND predicate...)
//   - ((eventType OR eventType...) AND (predicate OR predicate...))
//   - ((eventType OR eventType...) AND (predicate AND predicate...))
//   - several of the above OR-ed together
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEvent creates an empty Filter.
	MatchingAnyEvent() Filter
}

type EmptyFilterItemBuilder interface {
	// AnyEventTypeOf adds event types to the current FilterItem, dropping empty ones and duplicates.
	AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterItemBuilderLackingPredicates

	// AnyPredicateOf adds predicates of which at least one must match.
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes

	// AllPredicatesOf adds predicates that must all match.
	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes
}

type FilterItemBuilderLackingPredicates interface {
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type FilterItemBuilderLackingEventTypes interface {
	AndAnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	// OrMatching closes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize closes the current FilterItem and returns the Filter.
	Finalize() Filter
}

type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildEventFilter creates a FilterBuilder which must be completed with Finalize() or MatchingAnyEvent().
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) AnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) FilterItemBuilderLackingPredicates {

	merged := slices.Concat(fb.currentFilterItem.eventTypes, sanitizeEventTypes(eventType, eventTypes...))
	slices.Sort(merged)
	fb.currentFilterItem.eventTypes = slices.Clip(slices.Compact(merged))

	return fb
}

func (fb filterBuilder) AndAnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) CompletedFilterItemBuilder {

	return fb.AnyEventTypeOf(eventType, eventTypes...)
}

func (fb filterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.predicates = slices.Concat(
		fb.currentFilterItem.predicates,
		sanitizePredicates(predicate, predicates...),
	)

	return fb
}

func (fb filterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AnyPredicateOf(predicate, predicates...)
}

func (fb filterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.allPredicatesMustMatch = true
	fb.currentFilterItem.predicates = slices.Concat(
		fb.currentFilterItem.predicates,
		sanitizePredicates(predicate, predicates...),
	)

	return fb
}

func (fb filterBuilder) AndAllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = slices.Concat(fb.filter.items, []FilterItem{fb.currentFilterItem})
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) MatchingAnyEvent() Filter {
	return fb.filter
}

func (fb filterBuilder) Finalize() Filter {
	fb.filter.items = slices.Concat(fb.filter.items, []FilterItem{fb.currentFilterItem})

	return fb.filter
}

func sanitizeEventTypes(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) []FilterEventTypeString {
	all := slices.Concat([]FilterEventTypeString{eventType}, eventTypes)
	all = slices.DeleteFunc(all, func(e FilterEventTypeString) bool { return e == "" })
	slices.Sort(all)

	return slices.Clip(slices.Compact(all))
}

func sanitizePredicates(predicate FilterPredicate, predicates ...FilterPredicate) []FilterPredicate {
	all := slices.Concat([]FilterPredicate{predicate}, predicates)
	all = slices.DeleteFunc(all, func(p FilterPredicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(all, func(a, b FilterPredicate) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}

		return strings.Compare(a.val, b.val)
	})

	return slices.Clip(slices.Compact(all))
}
