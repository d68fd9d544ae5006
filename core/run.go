package core

import (
	"time"

	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"tallybench/stats"
)

// RunInfo describes one benchmarking session. It is stored as YAML in the
// metadata store.
type RunInfo struct {
	ID          int64             `yaml:"id"`
	Started     time.Time         `yaml:"started"`
	Description string            `yaml:"description,omitempty"`
	Iterations  int               `yaml:"iterations"`
	Workers     int               `yaml:"workers,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
}

func (info RunInfo) Serialize() ([]byte, error) {
	buf, err := yaml.Marshal(info)
	if err != nil {
		return nil, ewrap.Wrapf(err, "encode run %d", info.ID)
	}
	return buf, nil
}

func DeserializeRunInfo(buf []byte) (RunInfo, error) {
	var info RunInfo
	if err := yaml.Unmarshal(buf, &info); err != nil {
		return RunInfo{}, ewrap.Wrap(err, "decode run")
	}
	return info, nil
}

// Run is a handle on the tallies recorded during one session.
type Run struct {
	info RunInfo
	db   *DB
}

func (run *Run) ID() int64 {
	return run.info.ID
}

func (run *Run) Info() RunInfo {
	return run.info
}

// Record stores tally under name, replacing any earlier tally of that name.
func (run *Run) Record(name string, tally stats.Tally) error {
	return run.db.whileOpen(func() error {
		if err := run.db.store.Put(run.info.ID, name, tally); err != nil {
			return ewrap.Wrapf(err, "record %q in run %d", name, run.info.ID)
		}
		run.db.logger.Debug("recorded tally",
			zap.Int64("run", run.info.ID),
			zap.String("benchmark", name),
			zap.Stringer("tally", tally))
		return nil
	})
}

func (run *Run) Get(name string) (stats.Tally, error) {
	tally := stats.NewTally()
	err := run.db.whileOpen(func() error {
		var err error
		tally, err = run.db.store.Get(run.info.ID, name)
		return err
	})
	return tally, err
}

// Tallies returns every tally recorded in the run, keyed by benchmark name.
func (run *Run) Tallies() (map[string]stats.Tally, error) {
	tallies := make(map[string]stats.Tally)
	err := run.db.whileOpen(func() error {
		return run.db.store.Iterate(run.info.ID, func(name string, tally stats.Tally) error {
			tallies[name] = tally
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return tallies, nil
}
