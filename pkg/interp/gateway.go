package interp

import (
	"context"
	"errors"
)

// ErrAborted is returned by a Prompter when the user cancels a prompt.
var ErrAborted = errors.New("prompt cancelled by user")

// DefaultMessage is the prompt text used until a block sets its own.
const DefaultMessage = "Select"

// PromptKind selects how a choice is presented. It never changes the
// contract of the Prompter call.
type PromptKind int

const (
	PromptList   PromptKind = iota // exact-match list, single answer
	PromptSearch                   // fuzzy-search list, single answer
	PromptMulti                    // multi-choice list
)

func (k PromptKind) String() string {
	switch k {
	case PromptList:
		return "select"
	case PromptSearch:
		return "searchselect"
	case PromptMulti:
		return "multiselect"
	}
	return "unknown"
}

// PromptRequest describes one interactive selection.
type PromptRequest struct {
	Kind    PromptKind
	Name    string   // binding name of the block being resolved
	Message string   // prompt text
	Options []string // labels in source order, duplicates allowed
	Default int      // initially highlighted index (single answers only)
}

// Prompter performs interactive selections. Calls block until the user
// answers; a cancelled prompt returns ErrAborted.
type Prompter interface {
	// Select returns one chosen index into req.Options.
	Select(ctx context.Context, req PromptRequest) (int, error)
	// MultiSelect returns the chosen indices into req.Options, in the order
	// the prompter reports them (typically ascending).
	MultiSelect(ctx context.Context, req PromptRequest) ([]int, error)
}

// Actions performs the side-effecting commands of a script.
type Actions interface {
	// Shell runs a full command line in the current working directory,
	// inheriting the standard streams, and blocks until it completes.
	Shell(ctx context.Context, commandLine string) error
	// Chdir changes the process working directory.
	Chdir(path string) error
}
