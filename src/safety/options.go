package safety

// Options carries the global safety flags.
type Options struct {
	DryRun bool
	Yes    bool
	Force  bool
}
