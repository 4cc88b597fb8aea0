package collision

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
)

// PostStepFunc is a callback run once the current step completes.
type PostStepFunc func(p *Pipeline)

// Pipeline runs the collision steps of a set of models: bounding trees,
// detection, contact matching and response creation.
//
// Models cannot be removed while a step runs. Removals requested from
// callbacks are deferred until the step completes.
type Pipeline struct {
	conf         Config
	models       []Model
	intersection *Intersection
	manager      *ContactManager
	outputs      *DetectionOutputMap
	locked       bool
	postStep     []PostStepFunc
	stamp        uint64
}

// NewPipeline returns a pipeline creating contacts with factory and
// detecting proximities with the intersectors of in. The distances of in are
// overwritten by the ones of conf.
func NewPipeline(conf Config, factory *ContactFactory, in *Intersection) (*Pipeline, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	in.AlarmDistance = conf.AlarmDistance
	in.ContactDistance = conf.ContactDistance

	manager := NewContactManager(factory, in, conf.Response)
	manager.SetDefaultResponse(conf.Response, conf.ResponseParams)
	manager.SetVerbose(conf.Verbose)

	return &Pipeline{
		conf:         conf,
		intersection: in,
		manager:      manager,
		outputs:      NewDetectionOutputMap(),
	}, nil
}

func (p *Pipeline) Config() Config {
	return p.conf
}

func (p *Pipeline) Manager() *ContactManager {
	return p.manager
}

func (p *Pipeline) Intersection() *Intersection {
	return p.intersection
}

// Outputs returns the detection outputs of the last step.
func (p *Pipeline) Outputs() *DetectionOutputMap {
	return p.outputs
}

func (p *Pipeline) Models() []Model {
	return p.models
}

// Stamp returns the number of completed steps.
func (p *Pipeline) Stamp() uint64 {
	return p.stamp
}

// AddModel adds a model to the pipeline.
func (p *Pipeline) AddModel(m Model) Model {
	if p.locked {
		p.AddPostStepCallback(func(p *Pipeline) { p.AddModel(m) })
		return m
	}
	p.models = append(p.models, m)
	return m
}

// RemoveModel removes a model and every contact referencing it.
func (p *Pipeline) RemoveModel(m Model) {
	if p.locked {
		p.AddPostStepCallback(func(p *Pipeline) { p.RemoveModel(m) })
		return
	}

	for i, model := range p.models {
		if model == m {
			p.models = append(p.models[:i], p.models[i+1:]...)
			break
		}
	}
	p.manager.RemoveModel(m)

	logs.WithTag("model", m.Name()).Debug("model removed")
}

// AddPostStepCallback schedules f to run after the current step, or right
// away when no step is running.
func (p *Pipeline) AddPostStepCallback(f PostStepFunc) {
	if !p.locked {
		f(p)
		return
	}
	p.postStep = append(p.postStep, f)
}

// Step runs one collision step.
func (p *Pipeline) Step() {
	start := time.Now()
	defer instrumentStepLatency(start)

	p.locked = true
	for _, m := range p.models {
		if m.IsActive() {
			m.ComputeBoundingTree(p.conf.MaxDepth)
		}
	}

	p.outputs = Detect(p.models, p.intersection)
	p.manager.CreateContacts(p.outputs)

	for _, c := range p.manager.Contacts() {
		c.CreateResponse()
	}
	p.locked = false
	p.stamp++

	callbacks := p.postStep
	p.postStep = nil
	for _, f := range callbacks {
		f(p)
	}
}

// Reset removes every contact and forgets the last detection outputs.
func (p *Pipeline) Reset() {
	p.manager.Reset()
	p.outputs = NewDetectionOutputMap()
}
