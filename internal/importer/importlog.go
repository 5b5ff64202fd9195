// internal/importer/importlog.go
package importer

import (
	"fmt"
	"os"
	"time"

	"github.com/vmunix/musicd/internal/library"
)

// importLog appends one line per skipped or duplicate task to the file named
// by --log, so a user can revisit what the import left behind. A nil
// *importLog discards everything.
type importLog struct {
	f *os.File
}

func openImportLog(path, session string) (*importLog, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: open import log: %v", ErrInvalidOption, err)
	}
	l := &importLog{f: f}
	l.write("import started %s session %s", time.Now().Format(time.RFC3339), session)
	return l, nil
}

// record logs a task decision. Plain imports are not logged.
func (l *importLog) record(kind string, dups *duplicates, action, path string) {
	switch {
	case kind == ChoiceSkip:
		l.write("skip %s", library.DisplayablePath(path))
	case dups != nil && !dups.empty() && action == DuplicateRemove:
		l.write("duplicate-replace %s", library.DisplayablePath(path))
	case dups != nil && !dups.empty():
		l.write("duplicate-keep %s", library.DisplayablePath(path))
	}
}

func (l *importLog) write(format string, args ...any) {
	if l == nil {
		return
	}
	_, _ = fmt.Fprintf(l.f, format+"\n", args...)
}

func (l *importLog) Close() error {
	if l == nil {
		return nil
	}
	return l.f.Close()
}
