package main

import (
	"flag"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/born-ml/dyngraph/internal/autodiff"
	"github.com/born-ml/dyngraph/internal/dataset"
	"github.com/born-ml/dyngraph/internal/nn"
	"github.com/born-ml/dyngraph/internal/optim"
	"github.com/born-ml/dyngraph/internal/serialization"
	"github.com/pkg/errors"
)

// trainConfig holds the flags of the train command.
type trainConfig struct {
	dataDir   string
	steps     int
	batch     int
	lr        float64
	optimizer string
	evalEvery int
	logEvery  int
	seed      uint64
	traversal string
	logLevel  string
	load      string
	save      string
}

func parseTrainFlags(args []string, output io.Writer) (trainConfig, error) {
	var cfg trainConfig
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.dataDir, "data", "datasets", "Directory containing the mnist-{train,test}-{images,labels} files")
	fs.IntVar(&cfg.steps, "steps", 10000, "Number of training steps")
	fs.IntVar(&cfg.batch, "batch", 128, "Batch size")
	fs.Float64Var(&cfg.lr, "lr", 0.001, "Learning rate")
	fs.StringVar(&cfg.optimizer, "optimizer", "sgd", "Optimizer: sgd or adam")
	fs.IntVar(&cfg.evalEvery, "eval-every", 1000, "Evaluate test accuracy every N steps (0 = only at the end)")
	fs.IntVar(&cfg.logEvery, "log-every", 100, "Log the training loss every N steps")
	fs.Uint64Var(&cfg.seed, "seed", 0, "Random seed (0 = nondeterministic)")
	fs.StringVar(&cfg.traversal, "traversal", autodiff.Topological.String(), "Backward traversal: topological or worklist")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.load, "load", "", "Initialize parameters from this SafeTensors file")
	fs.StringVar(&cfg.save, "save", "", "Write trained parameters to this SafeTensors file")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	switch {
	case cfg.steps < 0:
		return cfg, errors.Errorf("-steps must be >= 0, got %d", cfg.steps)
	case cfg.batch <= 0:
		return cfg, errors.Errorf("-batch must be > 0, got %d", cfg.batch)
	case cfg.lr <= 0:
		return cfg, errors.Errorf("-lr must be > 0, got %g", cfg.lr)
	case cfg.evalEvery < 0:
		return cfg, errors.Errorf("-eval-every must be >= 0, got %d", cfg.evalEvery)
	case cfg.logEvery <= 0:
		return cfg, errors.Errorf("-log-every must be > 0, got %d", cfg.logEvery)
	}
	return cfg, nil
}

func newOptimizer(name string, params []*nn.Parameter, lr float32) (optim.Optimizer, error) {
	switch name {
	case "sgd":
		return optim.NewSGD(params, optim.SGDConfig{LR: lr}), nil
	case "adam":
		return optim.NewAdam(params, optim.AdamConfig{LR: lr}), nil
	default:
		return nil, errors.Errorf("unknown optimizer %q (want sgd or adam)", name)
	}
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrap(err, "invalid -log-level")
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func train(args []string, stderr io.Writer) error {
	cfg, err := parseTrainFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger, err := newLogger(stderr, cfg.logLevel)
	if err != nil {
		return err
	}
	traversal, err := autodiff.ParseTraversal(cfg.traversal)
	if err != nil {
		return err
	}

	seed := cfg.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	logger.Info("loading dataset", "dir", cfg.dataDir)
	data, err := dataset.Load(cfg.dataDir, rng)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", "train", data.TrainSize(), "test", data.TestSize())

	model := nn.NewMLP([]int{data.ImageSize(), 128, 128, dataset.NumClasses}, rng)
	if cfg.load != "" {
		meta, err := serialization.LoadParameters(cfg.load, model.Parameters())
		if err != nil {
			return err
		}
		logger.Info("parameters loaded", "path", cfg.load, "steps", meta["steps"])
	}
	optimizer, err := newOptimizer(cfg.optimizer, model.Parameters(), float32(cfg.lr))
	if err != nil {
		return err
	}
	logger.Info("training",
		"optimizer", cfg.optimizer,
		"lr", cfg.lr,
		"steps", cfg.steps,
		"batch", cfg.batch,
		"traversal", traversal,
		"seed", seed)

	evaluate := func(step int) {
		x, labels := data.TestSet()
		acc := autodiff.Accuracy(model.Forward(x), labels)
		logger.Info("eval", "step", step, "accuracy", acc)
	}

	start := time.Now()
	for step := 1; step <= cfg.steps; step++ {
		x, labels := data.Sample(cfg.batch)

		loss := autodiff.CrossEntropyLoss(model.Forward(x), labels)

		optimizer.ZeroGrad()
		autodiff.BackwardWith(loss, traversal)
		optimizer.Step()

		if step%cfg.logEvery == 0 {
			logger.Info("step", "step", step, "loss", loss.Data()[0])
		} else {
			logger.Debug("step", "step", step, "loss", loss.Data()[0])
		}
		if cfg.evalEvery > 0 && step%cfg.evalEvery == 0 {
			evaluate(step)
		}
	}

	if cfg.steps == 0 || cfg.evalEvery == 0 || cfg.steps%cfg.evalEvery != 0 {
		evaluate(cfg.steps)
	}
	logger.Info("done", "elapsed", time.Since(start).Round(time.Millisecond))

	if cfg.save != "" {
		meta := map[string]string{
			"optimizer": cfg.optimizer,
			"steps":     strconv.Itoa(cfg.steps),
			"seed":      strconv.FormatUint(seed, 10),
		}
		if err := serialization.SaveParameters(cfg.save, model.Parameters(), meta); err != nil {
			return err
		}
		logger.Info("parameters saved", "path", cfg.save)
	}
	return nil
}
