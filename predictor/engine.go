package predictor

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Predictor is the capability shared by every scheme.
type Predictor interface {
	// Predict returns the predicted direction for pc. It never changes
	// stored state.
	Predict(pc uint32) Outcome
	// Train records the resolved outcome of the branch most recently
	// passed to Predict.
	Train(pc uint32, outcome Outcome)
}

// Static always predicts taken and never learns.
type Static struct{}

// Predict returns Taken.
func (Static) Predict(uint32) Outcome { return Taken }

// Train does nothing.
func (Static) Train(uint32, Outcome) {}

// HookPosPredict marks a prediction. The hook item is a PredictEvent.
var HookPosPredict = &sim.HookPos{Name: "Predict"}

// HookPosTrain marks a training call. The hook item is a TrainEvent.
var HookPosTrain = &sim.HookPos{Name: "Train"}

// PredictEvent is passed to hooks at HookPosPredict.
type PredictEvent struct {
	PC         uint32
	Prediction Outcome
}

// TrainEvent is passed to hooks at HookPosTrain.
type TrainEvent struct {
	PC      uint32
	Outcome Outcome
}

// Engine owns the tables of one scheme and dispatches Predict and Train to
// it. An Engine is not safe for concurrent use; give each configuration its
// own Engine.
type Engine struct {
	*sim.HookableBase

	name   string
	config Config
	active Predictor
}

// NewEngine validates config and allocates the selected scheme. It returns a
// *ConfigurationError for unknown schemes and out-of-range sizes.
func NewEngine(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		HookableBase: sim.NewHookableBase(),
		name:         config.String(),
		config:       config,
	}

	switch config.Scheme {
	case SchemeGShare:
		e.active = NewGShare(config.GlobalHistoryBits)
	case SchemeTournament:
		e.active = NewTournament(TournamentConfig{
			GlobalHistoryBits: config.GlobalHistoryBits,
			LocalHistoryBits:  config.LocalHistoryBits,
			PCIndexBits:       config.PCIndexBits,
			GlobalXORPC:       config.TournamentGlobalXORPC,
		})
	case SchemeCustom:
		e.active = NewPerceptron(PerceptronConfig{
			Entries:        config.PerceptronEntries,
			HistoryLength:  config.PerceptronHistoryLength,
			TrainThreshold: config.PerceptronTrainThreshold,
			WeightClamp:    config.PerceptronWeightClamp,
			Hash:           config.PerceptronHash,
		})
	default:
		e.active = Static{}
	}

	return e, nil
}

// Name returns the scheme spec, e.g. "gshare:13".
func (e *Engine) Name() string {
	return e.name
}

// Config returns a copy of the configuration the engine was built from.
func (e *Engine) Config() Config {
	return e.config
}

// Scheme returns the active scheme type.
func (e *Engine) Scheme() SchemeType {
	return e.config.Scheme
}

// Predictor returns the active scheme.
func (e *Engine) Predictor() Predictor {
	return e.active
}

// Predict returns the active scheme's prediction for pc.
func (e *Engine) Predict(pc uint32) Outcome {
	prediction := e.active.Predict(pc)

	if e.NumHooks() > 0 {
		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosPredict,
			Item:   PredictEvent{PC: pc, Prediction: prediction},
		})
	}

	return prediction
}

// Train feeds the resolved outcome of pc to the active scheme.
func (e *Engine) Train(pc uint32, outcome Outcome) {
	e.active.Train(pc, outcome)

	if e.NumHooks() > 0 {
		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosTrain,
			Item:   TrainEvent{PC: pc, Outcome: outcome},
		})
	}
}
