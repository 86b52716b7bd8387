// Package query translates dashboard view parameters into the query-argument
// shape the backend expects and provides a stable form encoding for them.
package query

// FilterMode identifies which of the three mutually exclusive item filters a
// parameter bag carries.
type FilterMode int

const (
	// FilterModeAll matches every item (no filter keys emitted).
	FilterModeAll FilterMode = iota
	// FilterModeIDs selects items by an explicit id list.
	FilterModeIDs
	// FilterModeQuery selects items by a free-text search query.
	FilterModeQuery
)

// Filter is the item filter of a parameter bag. The three modes are mutually
// exclusive by construction; use one of the constructors below.
type Filter struct {
	mode  FilterMode
	ids   []string
	query string
}

// FilterByIDs selects the items with the given ids.
func FilterByIDs(ids []string) Filter {
	return Filter{mode: FilterModeIDs, ids: ids}
}

// FilterByQuery selects items matching a free-text search query.
func FilterByQuery(q string) Filter {
	return Filter{mode: FilterModeQuery, query: q}
}

// FilterAll selects every item.
func FilterAll() Filter {
	return Filter{mode: FilterModeAll}
}

// Mode returns the filter mode.
func (f Filter) Mode() FilterMode { return f.mode }

// IDs returns the id list for FilterModeIDs filters.
func (f Filter) IDs() []string { return f.ids }

// Query returns the search query for FilterModeQuery filters.
func (f Filter) Query() string { return f.query }

// Params is the parameter bag a dashboard view hands to the client. Optional
// fields use pointers so that absent and zero values stay distinguishable.
type Params struct {
	Filter      Filter
	Environment *string
	Projects    []string
	Start       *string
	End         *string
	Period      *string
	UTC         *bool
}

// Args is the derived, backend-facing translation of a Params bag. Only the
// fields the translation rules selected are populated.
type Args struct {
	IDs         []string
	Query       *string
	Environment *string
	Projects    []string
	Start       *string
	End         *string
	StatsPeriod *string
	UTC         *bool
}

// ParamsToArgs translates a parameter bag into backend query arguments.
//
// The id filter and the date fields are mutually exclusive by construction:
// date fields (and environment) are only carried on the free-text query
// branch. Callers rely on this.
func ParamsToArgs(p Params) Args {
	args := Args{}

	switch p.Filter.Mode() {
	case FilterModeIDs:
		args.IDs = p.Filter.IDs()
	case FilterModeQuery:
		q := p.Filter.Query()
		args.Query = &q
		if p.Environment != nil {
			args.Environment = p.Environment
		}
		if p.Start != nil {
			args.Start = p.Start
		}
		if p.End != nil {
			args.End = p.End
		}
		if p.Period != nil {
			args.StatsPeriod = p.Period
		}
		if p.UTC != nil {
			args.UTC = p.UTC
		}
	case FilterModeAll:
		// no filter keys; matches everything
	}

	if len(p.Projects) > 0 {
		args.Projects = p.Projects
	}

	return args
}

// Values flattens the arguments into an encodable key/value map. List values
// become repeated keys when encoded.
func (a Args) Values() map[string]any {
	vals := make(map[string]any)
	if len(a.IDs) > 0 {
		vals["id"] = a.IDs
	}
	if a.Query != nil {
		vals["query"] = *a.Query
	}
	if a.Environment != nil {
		vals["environment"] = *a.Environment
	}
	if len(a.Projects) > 0 {
		vals["project"] = a.Projects
	}
	if a.Start != nil {
		vals["start"] = *a.Start
	}
	if a.End != nil {
		vals["end"] = *a.End
	}
	if a.StatsPeriod != nil {
		vals["statsPeriod"] = *a.StatsPeriod
	}
	if a.UTC != nil {
		vals["utc"] = *a.UTC
	}
	return vals
}
