package cipher

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned when a pipeline names an unregistered operation.
var ErrUnknownOperation = errors.New("unknown operation")

// OperationType defines the category of transformation operation
type OperationType string

const (
	OperationTypeEncrypt   OperationType = "encrypt"
	OperationTypeDecrypt   OperationType = "decrypt"
	OperationTypeTransform OperationType = "transform"
)

// Operation represents a single transformation operation that can be applied to data
type Operation interface {
	// Name returns the unique identifier for this operation
	Name() string

	// Type returns the category of this operation
	Type() OperationType

	// Description returns a human-readable description
	Description() string

	// Execute applies the operation to the input data
	Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error)

	// Reverse returns the inverse operation if available
	Reverse() (Operation, bool)
}

// OperationConfig represents configuration for an operation in a pipeline
type OperationConfig struct {
	Name       string                 `json:"name" yaml:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Pipeline represents a chain of operations that can be applied sequentially
type Pipeline struct {
	Operations []OperationConfig `json:"operations" yaml:"operations"`
	Reversible bool              `json:"reversible" yaml:"reversible"`
}

// Execute runs the pipeline on the input data
func (p *Pipeline) Execute(ctx context.Context, input []byte) ([]byte, error) {
	result := input
	var err error

	for i, opConfig := range p.Operations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline interrupted at step %d: %w", i, err)
		}

		op, exists := GetOperation(opConfig.Name)
		if !exists {
			return nil, fmt.Errorf("step %d: %w: %s", i, ErrUnknownOperation, opConfig.Name)
		}

		result, err = op.Execute(ctx, result, opConfig.Parameters)
		if err != nil {
			return nil, fmt.Errorf("operation %s failed at step %d: %w", opConfig.Name, i, err)
		}
	}

	return result, nil
}

// ConfigReverser is implemented by operations whose inverse depends on their
// parameters. The returned configs run in order and undo a single step.
type ConfigReverser interface {
	ReverseConfig(params map[string]interface{}) ([]OperationConfig, error)
}

// Reverse creates a reversed pipeline if all operations are reversible
func (p *Pipeline) Reverse() (*Pipeline, error) {
	if !p.Reversible {
		return nil, errors.New("pipeline is not reversible")
	}

	reversed := &Pipeline{
		Operations: make([]OperationConfig, 0, len(p.Operations)),
		Reversible: true,
	}

	for i := len(p.Operations) - 1; i >= 0; i-- {
		opConfig := p.Operations[i]
		op, exists := GetOperation(opConfig.Name)
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, opConfig.Name)
		}

		if cr, ok := op.(ConfigReverser); ok {
			steps, err := cr.ReverseConfig(opConfig.Parameters)
			if err != nil {
				return nil, fmt.Errorf("operation %s: %w", opConfig.Name, err)
			}
			reversed.Operations = append(reversed.Operations, steps...)
			continue
		}

		reverseOp, ok := op.Reverse()
		if !ok {
			return nil, fmt.Errorf("operation %s is not reversible", opConfig.Name)
		}
		reversed.Operations = append(reversed.Operations, OperationConfig{
			Name:       reverseOp.Name(),
			Parameters: opConfig.Parameters,
		})
	}

	return reversed, nil
}

// Recipe represents a named, reusable transformation pipeline
type Recipe struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Pipeline    Pipeline `json:"pipeline" yaml:"pipeline"`
	CreatedAt   string   `json:"created_at" yaml:"created_at"`
	UpdatedAt   string   `json:"updated_at" yaml:"updated_at"`
}

// BaseOperation provides common functionality for operations
type BaseOperation struct {
	NameValue        string
	TypeValue        OperationType
	DescriptionValue string
	ReverseOp        Operation
}

func (b *BaseOperation) Name() string {
	return b.NameValue
}

func (b *BaseOperation) Type() OperationType {
	return b.TypeValue
}

func (b *BaseOperation) Description() string {
	return b.DescriptionValue
}

func (b *BaseOperation) Reverse() (Operation, bool) {
	if b.ReverseOp == nil {
		return nil, false
	}
	return b.ReverseOp, true
}
