// Package postprocessors provides named passes over dataset row batches.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// Pipeline chains multiple RowProcessors and runs them in order.
// It implements the RowPipeline interface.
type Pipeline struct {
	processors []driven.RowProcessor
}

var _ driven.RowPipeline = (*Pipeline)(nil)

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.RowProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the rows through all processors in order.
// Each processor receives the previous processor's output.
func (p *Pipeline) Process(ctx context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, error) {
	out := rows
	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		out, err = processor.Process(ctx, out)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}
	return out, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.RowProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}
