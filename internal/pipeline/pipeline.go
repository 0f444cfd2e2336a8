// Package pipeline filters, sorts and truncates an in-memory list of date
// ideas. The web client fetches the full list once and derives every view
// (filtered list, dashboard stats, souvenir timeline) from the same source
// slice; this package is that derivation, kept pure so it can also back a
// server-rendered view or an export job.
//
// The step order is fixed: search → category → status → sort → limit.
// The limit must run last — truncating before filtering or sorting would
// drop records that belong on the page.
package pipeline

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lfournier/datebook/internal/model"
)

// Status filters by completion state.
type Status int

const (
	StatusAll Status = iota
	StatusDone
	StatusPending
)

// ParseStatus maps the loose query value to a Status. Only the literal
// strings "true" and "false" select a state; anything else means no filter.
func ParseStatus(s string) Status {
	switch s {
	case "true":
		return StatusDone
	case "false":
		return StatusPending
	}
	return StatusAll
}

// SortField selects the sort key.
type SortField int

const (
	SortTitle SortField = iota
	SortCreatedAt
	SortDateRealised
)

func ParseSortField(s string) SortField {
	switch s {
	case "createdAt":
		return SortCreatedAt
	case "date_realised":
		return SortDateRealised
	}
	return SortTitle
}

// Order is the sort direction.
type Order int

const (
	Asc Order = iota
	Desc
)

func ParseOrder(s string) Order {
	if s == "desc" {
		return Desc
	}
	return Asc
}

// DefaultPageSize is used when the page-size value is unrecognized.
// Zero means no truncation.
const DefaultPageSize = 25

// ParsePageSize accepts the closed set {"25","50","75"} plus the "all"
// sentinel (0). Anything else falls back to the default.
func ParsePageSize(s string) int {
	switch s {
	case "all":
		return 0
	case "25":
		return 25
	case "50":
		return 50
	case "75":
		return 75
	}
	return DefaultPageSize
}

// Config is the full filter/sort/limit configuration of one view.
// The zero value means: no search, all categories, all statuses, sorted by
// title ascending, truncated to DefaultPageSize... except PageSize 0, which
// means "all". Build configs through the Parse helpers at the boundary.
type Config struct {
	Search    string
	Category  string // exact category name; "" or "all" disables
	Status    Status
	SortField SortField
	Order     Order
	PageSize  int // 0 disables truncation
}

// View recomputes the derived list whenever the source slice or the config
// changes, and memoizes the result in between. Recomputation is cheap, but
// the client re-renders on every keystroke in the search box, so the memo
// avoids re-sorting an unchanged list dozens of times per second.
//
// A View is not safe for concurrent use; each consumer owns one.
type View struct {
	collator *collate.Collator

	memoValid bool
	memoCfg   Config
	memoSrc   []model.Date // source slice of the memoized result, compared by identity
	memoOut   []model.Date
}

// New creates a View sorting titles with the collation rules of tag.
// Title sorting is locale-aware: in French, "Échecs" belongs under E, which
// a plain byte compare gets wrong.
func New(tag language.Tag) *View {
	return &View{collator: collate.New(tag)}
}

// Apply runs the pipeline over dates. The returned slice is freshly
// allocated and never aliases dates; callers may mutate it freely.
func (v *View) Apply(dates []model.Date, cfg Config) []model.Date {
	if v.memoValid && cfg == v.memoCfg && sameSlice(dates, v.memoSrc) {
		return v.memoOut
	}

	result := make([]model.Date, 0, len(dates))

	query := strings.ToLower(strings.TrimSpace(cfg.Search))
	filterCategory := cfg.Category != "" && cfg.Category != "all"

	for _, d := range dates {
		if query != "" && !matchesSearch(&d, query) {
			continue
		}
		if filterCategory && d.Category != cfg.Category {
			continue
		}
		switch cfg.Status {
		case StatusDone:
			if !d.Done {
				continue
			}
		case StatusPending:
			if d.Done {
				continue
			}
		}
		result = append(result, d)
	}

	v.sort(result, cfg.SortField, cfg.Order)

	if cfg.PageSize > 0 && len(result) > cfg.PageSize {
		result = result[:cfg.PageSize]
	}

	v.memoValid = true
	v.memoCfg = cfg
	v.memoSrc = dates
	v.memoOut = result
	return result
}

// Invalidate drops the memoized result. Call it after mutating the source
// slice in place, where the slice identity cannot signal the change.
func (v *View) Invalidate() {
	v.memoValid = false
}

// matchesSearch reports whether any of title, notes or category contains
// the lowercased query.
func matchesSearch(d *model.Date, query string) bool {
	return strings.Contains(strings.ToLower(d.Title), query) ||
		strings.Contains(strings.ToLower(d.Notes), query) ||
		strings.Contains(strings.ToLower(d.Category), query)
}

func (v *View) sort(dates []model.Date, field SortField, order Order) {
	var cmp func(a, b model.Date) int
	switch field {
	case SortCreatedAt:
		cmp = func(a, b model.Date) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case SortDateRealised:
		cmp = func(a, b model.Date) int {
			ma, mb := realisedMillis(a), realisedMillis(b)
			switch {
			case ma < mb:
				return -1
			case ma > mb:
				return 1
			}
			return 0
		}
	default:
		cmp = func(a, b model.Date) int {
			return v.collator.CompareString(a.Title, b.Title)
		}
	}

	if order == Desc {
		inner := cmp
		cmp = func(a, b model.Date) int { return -inner(a, b) }
	}

	slices.SortStableFunc(dates, cmp)
}

// realisedMillis converts date_realised to a sortable number, with a
// missing value counting as the epoch so unrealised dates group together
// at one end.
func realisedMillis(d model.Date) int64 {
	if d.DateRealised == nil {
		return 0
	}
	return d.DateRealised.UnixMilli()
}

// sameSlice reports whether two slices are the same slice (same backing
// array and length), which is how the memo detects an unchanged source.
func sameSlice(a, b []model.Date) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
