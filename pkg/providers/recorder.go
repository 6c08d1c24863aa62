package providers

import (
	"context"

	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/antoKeinanen/novarum/pkg/schema"
)

// RecordingPrompter wraps a Prompter and records every answer by block name,
// so an interactive run can be saved as a replayable scenario. The first
// answer for a name goes to answers; later prompts of the same name are
// queued under repeats.
type RecordingPrompter struct {
	inner   interp.Prompter
	answers map[string]schema.Answer
	repeats map[string][]schema.Answer
	order   []string
}

// NewRecordingPrompter creates a recording wrapper around inner.
func NewRecordingPrompter(inner interp.Prompter) *RecordingPrompter {
	return &RecordingPrompter{
		inner:   inner,
		answers: make(map[string]schema.Answer),
		repeats: make(map[string][]schema.Answer),
	}
}

func (r *RecordingPrompter) Select(ctx context.Context, req interp.PromptRequest) (int, error) {
	idx, err := r.inner.Select(ctx, req)
	if err != nil {
		return idx, err
	}
	if idx >= 0 && idx < len(req.Options) {
		r.record(req.Name, schema.Single(req.Options[idx]))
	}
	return idx, nil
}

func (r *RecordingPrompter) MultiSelect(ctx context.Context, req interp.PromptRequest) ([]int, error) {
	indices, err := r.inner.MultiSelect(ctx, req)
	if err != nil {
		return indices, err
	}
	labels := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(req.Options) {
			labels = append(labels, req.Options[idx])
		}
	}
	r.record(req.Name, schema.Multi(labels...))
	return indices, nil
}

func (r *RecordingPrompter) record(name string, a schema.Answer) {
	if _, seen := r.answers[name]; seen {
		r.repeats[name] = append(r.repeats[name], a)
		return
	}
	r.order = append(r.order, name)
	r.answers[name] = a
}

// Names returns recorded block names in first-answered order.
func (r *RecordingPrompter) Names() []string {
	return append([]string(nil), r.order...)
}

// Scenario returns the recorded answers as a scenario document.
func (r *RecordingPrompter) Scenario(name string) *schema.Scenario {
	answers := make(map[string]schema.Answer, len(r.answers))
	for k, v := range r.answers {
		answers[k] = v
	}
	var repeats map[string][]schema.Answer
	if len(r.repeats) > 0 {
		repeats = make(map[string][]schema.Answer, len(r.repeats))
		for k, v := range r.repeats {
			repeats[k] = append([]schema.Answer(nil), v...)
		}
	}
	return &schema.Scenario{Name: name, Answers: answers, Repeats: repeats}
}
