package cipher

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	operationsRegistry = make(map[string]Operation)
	registryMu         sync.RWMutex
)

func init() {
	registerBuiltins()
}

// RegisterOperation adds an operation to the global registry
func RegisterOperation(op Operation) error {
	if op == nil {
		return errors.New("cannot register nil operation")
	}

	name := op.Name()
	if name == "" {
		return errors.New("operation name cannot be empty")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := operationsRegistry[name]; exists {
		return fmt.Errorf("operation %s is already registered", name)
	}

	operationsRegistry[name] = op
	return nil
}

// GetOperation retrieves an operation from the registry by name
func GetOperation(name string) (Operation, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	op, exists := operationsRegistry[name]
	return op, exists
}

// ListOperations returns all registered operations sorted by name
func ListOperations() []Operation {
	return listOperations(func(Operation) bool { return true })
}

// ListOperationsByType returns operations filtered by type
func ListOperationsByType(opType OperationType) []Operation {
	return listOperations(func(op Operation) bool { return op.Type() == opType })
}

func listOperations(keep func(Operation) bool) []Operation {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ops := make([]Operation, 0, len(operationsRegistry))
	for _, op := range operationsRegistry {
		if keep(op) {
			ops = append(ops, op)
		}
	}

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name() < ops[j].Name()
	})
	return ops
}

// UnregisterOperation removes an operation from the registry (mainly for testing)
func UnregisterOperation(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(operationsRegistry, name)
}

// ClearRegistry removes all operations (mainly for testing)
func ClearRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()

	operationsRegistry = make(map[string]Operation)
}

// ResetRegistry restores the registry to the built-in operations only.
func ResetRegistry() {
	ClearRegistry()
	registerBuiltins()
}

func registerBuiltins() {
	encrypt := &VigenereEncryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "vigenere_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Encipher text with the Vigenère cipher",
		},
	}
	decrypt := &VigenereDecryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "vigenere_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Decipher Vigenère ciphertext",
		},
	}
	encrypt.ReverseOp = decrypt
	decrypt.ReverseOp = encrypt

	reverse := &ReverseOp{
		BaseOperation: BaseOperation{
			NameValue:        "reverse",
			TypeValue:        OperationTypeTransform,
			DescriptionValue: "Reverse the character order of the input",
		},
	}
	reverse.ReverseOp = reverse

	builtins := []Operation{
		encrypt,
		decrypt,
		reverse,
		&UppercaseOp{
			BaseOperation: BaseOperation{
				NameValue:        "uppercase",
				TypeValue:        OperationTypeTransform,
				DescriptionValue: "Convert the input to uppercase",
			},
		},
		&RepeatOp{
			BaseOperation: BaseOperation{
				NameValue:        "repeat",
				TypeValue:        OperationTypeTransform,
				DescriptionValue: "Repeat the input with separators and an optional addition",
			},
		},
		&DeleteDigitOp{
			BaseOperation: BaseOperation{
				NameValue:        "delete_digit",
				TypeValue:        OperationTypeTransform,
				DescriptionValue: "Largest number obtainable by deleting exactly one digit",
			},
		},
	}

	for _, op := range builtins {
		if err := RegisterOperation(op); err != nil {
			panic(err)
		}
	}
}
