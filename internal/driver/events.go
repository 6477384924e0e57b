package driver

// Status describes how a single file finished.
type Status uint8

const (
	StatusOK Status = iota
	StatusDirty
	StatusFailed
	StatusCached
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDirty:
		return "dirty"
	case StatusFailed:
		return "failed"
	case StatusCached:
		return "cached"
	default:
		return "unknown"
	}
}

// Event is emitted once per completed file during a directory run. The
// progress UI consumes these; Index/Total drive the percentage bar.
type Event struct {
	Path   string
	Status Status
	Index  int
	Total  int
}
