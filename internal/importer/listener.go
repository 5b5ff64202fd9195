// internal/importer/listener.go
package importer

import "github.com/vmunix/musicd/internal/library"

// Decision kinds reported to listeners. Album and singleton tasks share them.
const (
	ChoiceAsIs = "asis"
	ChoiceSkip = "skip"
)

// ChoiceListener observes the engine's per-task decisions. OnTaskDecision is
// called synchronously, in task order, before the decision is applied; items
// carry the tags read from the source files.
type ChoiceListener interface {
	OnTaskDecision(kind string, items []*library.Item)
}

// ChoiceListenerFunc adapts a function to ChoiceListener.
type ChoiceListenerFunc func(kind string, items []*library.Item)

// OnTaskDecision calls f.
func (f ChoiceListenerFunc) OnTaskDecision(kind string, items []*library.Item) {
	f(kind, items)
}
