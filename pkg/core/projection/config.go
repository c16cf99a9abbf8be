package projection

import "underwriting/pkg/core/config"

// NewRunnerFromConfig builds a runner from the analysis section of the config.
func NewRunnerFromConfig(cfg config.AnalysisConfig) (*Runner, error) {
	basis, err := ParseDSCRBasis(cfg.DSCRBasis)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithDSCRBasis(basis)}
	if cfg.IRRGuess != 0 {
		opts = append(opts, WithIRRGuess(cfg.IRRGuess))
	}
	return NewRunner(opts...), nil
}
