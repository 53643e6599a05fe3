package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"cosmic-blueprint/internal/domain"
)

// ComputeBatch computes the Blueprints of inputs in parallel, at most
// BatchConcurrency at a time. Results are in input order. The first error
// cancels the remaining work and is returned with the failing index.
func (s *Service) ComputeBatch(ctx context.Context, inputs []domain.BirthInput) ([]*domain.Blueprint, error) {
	s.metrics.RecordBatch(len(inputs))

	results := make([]*domain.Blueprint, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bp, _, _, err := s.compute(gctx, in)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			results[i] = bp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
