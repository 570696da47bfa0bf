package service

import (
	"strings"
	"time"

	"github.com/gatherly/gatherly/internal/repository"
)

// ListOptions are the optional query parameters for listing events.
type ListOptions struct {
	Title  string
	Filter string
	Date   string
}

// BuildFilter translates list options into a repository filter.
// A valid Date takes precedence over Filter. An invalid Date is ignored and
// Filter is evaluated instead. Unknown filters apply no range.
func BuildFilter(opts ListOptions, now time.Time) repository.EventFilter {
	filter := repository.EventFilter{
		TitleContains: opts.Title,
	}

	var (
		rng DateRange
		ok  bool
	)
	if opts.Date != "" {
		rng, ok = ResolveDate(strings.TrimSpace(opts.Date), now.Location())
	}
	if !ok && opts.Filter != "" {
		rng, ok = ResolveFilter(opts.Filter, now)
	}

	if ok {
		start, end := rng.Start, rng.End
		filter.From = &start
		filter.To = &end
	}

	return filter
}
