// Package bench decodes a YAML scenario file into a sequence of graph
// builder calls and replays it against a dispatch.Scheduler: a single
// data-driven load generator in place of a directory of ad-hoc demo
// programs.
package bench

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Swind/honeydew/dispatch"
	"github.com/Swind/honeydew/graph"
	"gopkg.in/yaml.v3"
)

// StepSpec is one builder call in a scenario chain.
type StepSpec struct {
	// Kind is one of "then", "also", "fork" (case-sensitive, lowercase).
	Kind string `yaml:"kind"`
	// Work is how long the step's action sleeps, simulating real work.
	Work time.Duration `yaml:"work"`
	// Worker pins this step to worker (Worker mod N); 0 means unpinned.
	Worker uint64 `yaml:"worker"`
	// Priority is the relative priority delta passed to the builder call.
	Priority uint64 `yaml:"priority"`
}

// GraphSpec is one root graph: a first step plus a chain of further steps.
type GraphSpec struct {
	Name  string     `yaml:"name"`
	Steps []StepSpec `yaml:"steps"`
}

// ScenarioSpec is the top-level shape of a scenario YAML file: how many
// times to repeat the whole set of graphs, and the graphs themselves.
type ScenarioSpec struct {
	Repeat int         `yaml:"repeat"`
	Graphs []GraphSpec `yaml:"graphs"`
}

// LoadScenario reads and decodes a scenario file.
func LoadScenario(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bench: read scenario: %w", err)
	}

	var spec ScenarioSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("bench: decode scenario: %w", err)
	}
	if spec.Repeat <= 0 {
		spec.Repeat = 1
	}
	return &spec, nil
}

// Build turns a GraphSpec into a postable *graph.Node. onStepDone is called
// from within each step's action, after its simulated work completes;
// passing nil is fine if the caller doesn't need per-step notification.
func Build(spec GraphSpec, onStepDone func(graphName string, stepIndex int)) *graph.Node {
	if len(spec.Steps) == 0 {
		return nil
	}

	action := func(step StepSpec, index int) graph.Action {
		return func(ctx context.Context) {
			if step.Work > 0 {
				time.Sleep(step.Work)
			}
			if onStepDone != nil {
				onStepDone(spec.Name, index)
			}
		}
	}

	first := spec.Steps[0]
	b := graph.NewBuilder(action(first, 0), stepOpts(first)...)

	for i := 1; i < len(spec.Steps); i++ {
		step := spec.Steps[i]
		opts := stepOpts(step)
		switch step.Kind {
		case "also":
			b.Also(action(step, i), opts...)
		case "fork":
			b.Fork(action(step, i), opts...)
		default:
			b.Then(action(step, i), opts...)
		}
	}

	return b.Close()
}

func stepOpts(step StepSpec) []graph.NodeOption {
	var opts []graph.NodeOption
	if step.Worker > 0 {
		opts = append(opts, graph.WithWorker(step.Worker))
	}
	if step.Priority > 0 {
		opts = append(opts, graph.WithPriority(step.Priority))
	}
	return opts
}

// Run posts every graph in the scenario, spec.Repeat times, to scheduler.
func Run(scheduler *dispatch.Scheduler, spec *ScenarioSpec, onStepDone func(graphName string, stepIndex int)) error {
	for i := 0; i < spec.Repeat; i++ {
		for _, g := range spec.Graphs {
			root := Build(g, onStepDone)
			if root == nil {
				continue
			}
			if err := scheduler.Post(root); err != nil {
				return fmt.Errorf("bench: post graph %q: %w", g.Name, err)
			}
		}
	}
	return nil
}
