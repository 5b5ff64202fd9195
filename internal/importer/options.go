// internal/importer/options.go
package importer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

// Duplicate actions.
const (
	DuplicateSkip   = "skip"
	DuplicateKeep   = "keep"
	DuplicateRemove = "remove"
)

// Options controls one import run.
type Options struct {
	Quiet       bool
	Singletons  bool
	Copy        bool
	Move        bool
	Incremental bool
	Set         map[string]string
	// LogPath names a file that collects skipped and duplicate tasks.
	LogPath         string
	DuplicateAction string
}

// Validate checks option values.
func (o Options) Validate() error {
	switch o.DuplicateAction {
	case DuplicateSkip, DuplicateKeep, DuplicateRemove:
	default:
		return fmt.Errorf("%w: duplicate action %q must be skip, keep or remove", ErrInvalidOption, o.DuplicateAction)
	}
	for k := range o.Set {
		if k == "" || k == "id" || k == "path" || k == "album_id" {
			return fmt.Errorf("%w: cannot set field %q", ErrInvalidOption, k)
		}
	}
	return nil
}

// SetFields returns the --set field names in sorted order.
func (o Options) SetFields() []string {
	keys := make([]string, 0, len(o.Set))
	for k := range o.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseArgs parses import command-line flags on top of defaults and returns the
// resulting options and the positional arguments. Unknown flags are errors.
func ParseArgs(args []string, defaults Options) (Options, []string, error) {
	opts := defaults
	opts.Set = make(map[string]string, len(defaults.Set))
	for k, v := range defaults.Set {
		opts.Set[k] = v
	}

	fs := pflag.NewFlagSet("import", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolVarP(&opts.Quiet, "quiet", "q", opts.Quiet, "never prompt")
	fs.BoolVarP(&opts.Singletons, "singletons", "s", opts.Singletons, "import individual tracks")
	copyOn := fs.BoolP("copy", "c", false, "copy files into the library")
	noCopy := fs.BoolP("nocopy", "C", false, "leave files in place")
	move := fs.BoolP("move", "m", false, "move files into the library")
	incr := fs.BoolP("incremental", "i", false, "skip previously imported directories")
	noIncr := fs.BoolP("noincremental", "I", false, "import every directory")
	// Tags are always imported as-is, so -A only confirms the default.
	fs.BoolP("noautotag", "A", false, "do not look up metadata")
	sets := fs.StringArray("set", nil, "set field=value on imported items")
	fs.StringVarP(&opts.LogPath, "log", "l", opts.LogPath, "log file")
	fs.StringVar(&opts.DuplicateAction, "duplicate-action", opts.DuplicateAction, "skip, keep or remove")

	if err := fs.Parse(args); err != nil {
		return Options{}, nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}

	if fs.Changed("copy") && *copyOn {
		opts.Copy = true
	}
	if fs.Changed("nocopy") && *noCopy {
		opts.Copy = false
		opts.Move = false
	}
	if fs.Changed("move") && *move {
		opts.Move = true
		opts.Copy = false
	}
	if fs.Changed("incremental") && *incr {
		opts.Incremental = true
	}
	if fs.Changed("noincremental") && *noIncr {
		opts.Incremental = false
	}

	for _, s := range *sets {
		field, value, ok := strings.Cut(s, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return Options{}, nil, fmt.Errorf("%w: --set expects field=value, got %q", ErrInvalidOption, s)
		}
		opts.Set[strings.ToLower(field)] = value
	}

	if opts.DuplicateAction == "" {
		opts.DuplicateAction = DuplicateSkip
	}
	if err := opts.Validate(); err != nil {
		return Options{}, nil, err
	}

	return opts, fs.Args(), nil
}
