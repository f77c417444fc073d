package filter

// Console shows a record when it passes the include list and is not caught by
// the exclude list. An include list without enabled filters lets everything
// through; an empty exclude list hides nothing.
type Console struct {
	notifier

	Include *Collection
	Exclude *Collection
}

func NewConsole(includeMode, excludeMode Mode) *Console {
	c := &Console{
		Include: NewCollection(includeMode, true),
		Exclude: NewCollection(excludeMode, false),
	}
	c.Include.Subscribe(c.emit)
	c.Exclude.Subscribe(c.emit)
	return c
}

func (c *Console) Visible(record Record) bool {
	return c.Include.Match(record) && !c.Exclude.Match(record)
}

// Apply returns the visible records in their original order.
func (c *Console) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if c.Visible(r) {
			out = append(out, r)
		}
	}
	return out
}

// Validate reports pattern errors from both lists.
func (c *Console) Validate() []error {
	return append(c.Include.Validate(), c.Exclude.Validate()...)
}
