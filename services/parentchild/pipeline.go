package parentchild

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// step is one unit of a multi-document mutation. Critical steps abort the
// pipeline on failure; best-effort steps record a warning and continue, so a
// late failure never undoes earlier successful writes.
type step struct {
	name     string
	critical bool
	run      func(ctx context.Context) error
}

func critical(name string, run func(ctx context.Context) error) step {
	return step{name: name, critical: true, run: run}
}

func bestEffort(name string, run func(ctx context.Context) error) step {
	return step{name: name, run: run}
}

func runSteps(ctx context.Context, steps []step) ([]string, error) {
	var warnings []string
	for _, st := range steps {
		err := st.run(ctx)
		if err == nil {
			continue
		}
		if st.critical {
			return warnings, fmt.Errorf("%s: %w", st.name, err)
		}
		log.Warn().Err(err).Str("step", st.name).Msg("best-effort step failed")
		warnings = append(warnings, fmt.Sprintf("%s: %v", st.name, err))
	}
	return warnings, nil
}
