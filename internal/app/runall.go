package app

import (
	"context"
	"errors"
	"fmt"
)

// RunAll chains fetch, normalize, draft, and review for one dataset.
// Each stage persists its output before the next starts, so a failure
// leaves the completed stages reusable on the next invocation.
func (a *App) RunAll(ctx context.Context, opts StageOptions) error {
	stages := []struct {
		name string
		run  func(context.Context, StageOptions) error
	}{
		{"fetch", a.Fetch},
		{"normalize", a.Normalize},
		{"draft", a.Draft},
		{"review", a.Review},
	}

	for _, stage := range stages {
		a.Logger.Info().Str("dataset", opts.Dataset).Str("stage", stage.name).Msg("starting stage")
		if err := stage.run(ctx, opts); err != nil {
			if errors.Is(err, ErrGateFailed) {
				return err
			}
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}
	}

	a.Logger.Info().Str("dataset", opts.Dataset).Msg("pipeline complete")
	return nil
}
