package domain

type workflowState int

const (
	workflowEmpty workflowState = iota
	workflowAccumulating
	workflowBuilt
)

type workflowStep struct {
	name          string
	function      string
	inputSelector string
}

// WorkflowBuilder assembles the ordered steps of a domain's workflow. Each
// step is backed by a function registered on the parent as <step>StepFunction.
type WorkflowBuilder struct {
	parent *Builder
	id     string
	steps  []workflowStep
	state  workflowState
	done   bool
}

// WorkflowStep is one step of a built workflow.
type WorkflowStep struct {
	Name          string
	FunctionName  string
	InputSelector string
}

// WorkflowGraph is a strictly sequential execution chain: each step's output
// is the next step's input, narrowed by that step's InputSelector.
type WorkflowGraph struct {
	ID    string
	Steps []WorkflowStep
}

// StartAt returns the first step name.
func (g *WorkflowGraph) StartAt() string {
	if len(g.Steps) == 0 {
		return ""
	}
	return g.Steps[0].Name
}

// Next returns the step after name, or false if name is the last step.
func (g *WorkflowGraph) Next(name string) (string, bool) {
	for i, s := range g.Steps {
		if s.Name == name && i+1 < len(g.Steps) {
			return g.Steps[i+1].Name, true
		}
	}
	return "", false
}

// ID returns the workflow id.
func (w *WorkflowBuilder) ID() string {
	return w.id
}

// HasStep reports whether a step with the given name exists.
func (w *WorkflowBuilder) HasStep(name string) bool {
	for _, s := range w.steps {
		if s.name == name {
			return true
		}
	}
	return false
}

// HasSteps reports whether at least one step has been added.
func (w *WorkflowBuilder) HasSteps() bool {
	return len(w.steps) > 0
}

// AddStep appends a step. configure, if not nil, receives the builder of the
// step's function before the step is recorded.
func (w *WorkflowBuilder) AddStep(name string, cfg StepConfig, configure func(*LambdaBuilder)) error {
	if w.done {
		return &SealedWorkflowError{Workflow: w.id, Step: name}
	}
	if w.state == workflowBuilt {
		return &AlreadyBuiltError{Workflow: w.id}
	}
	if w.HasStep(name) {
		return &DuplicateStepError{Workflow: w.id, Step: name}
	}

	fn, err := w.parent.addFunction(StepFunctionName(name), LambdaConfig{
		EntryPoint:     cfg.EntryPoint,
		SourceLocation: cfg.SourceLocation,
	}, Origin{Kind: OriginWorkflowStep, WorkflowID: w.id, StepName: name})
	if err != nil {
		return err
	}
	if configure != nil {
		configure(fn)
	}

	w.steps = append(w.steps, workflowStep{
		name:          name,
		function:      fn.Name(),
		inputSelector: cfg.InputSelector,
	})
	w.state = workflowAccumulating
	return nil
}

// ExposeRoute binds method and path to the workflow.
func (w *WorkflowBuilder) ExposeRoute(path, method string) error {
	return w.parent.RegisterRoute(RouteDeclaration{
		Path:   path,
		Method: method,
		Target: w.id,
		Kind:   TargetWorkflow,
	})
}

// Build produces the sequential execution graph. It can be called once.
func (w *WorkflowBuilder) Build() (*WorkflowGraph, error) {
	switch w.state {
	case workflowEmpty:
		return nil, &EmptyWorkflowError{Workflow: w.id}
	case workflowBuilt:
		return nil, &AlreadyBuiltError{Workflow: w.id}
	}

	w.state = workflowBuilt
	return w.graph(), nil
}

// graph returns a fresh copy of the chain for the current steps.
func (w *WorkflowBuilder) graph() *WorkflowGraph {
	g := &WorkflowGraph{ID: w.id, Steps: make([]WorkflowStep, len(w.steps))}
	for i, s := range w.steps {
		g.Steps[i] = WorkflowStep{
			Name:          s.name,
			FunctionName:  s.function,
			InputSelector: s.inputSelector,
		}
	}
	return g
}

// Done seals the step functions and returns the parent builder. No steps can
// be added afterwards.
func (w *WorkflowBuilder) Done() *Builder {
	w.done = true
	for _, s := range w.steps {
		w.parent.sealed.Insert(s.function)
	}
	return w.parent
}
