package cipher

import (
	"context"
	"fmt"

	"github.com/RowanDark/vigenere/internal/vigenere"
)

// machineFor builds the machine described by the "direct" parameter and
// returns it along with the "key" parameter.
func machineFor(params map[string]interface{}) (*vigenere.Machine, string, error) {
	key, err := stringParam(params, "key", "")
	if err != nil {
		return nil, "", err
	}
	direct, err := boolParam(params, "direct", true)
	if err != nil {
		return nil, "", err
	}
	return vigenere.New(direct), key, nil
}

// VigenereEncryptOp enciphers text. Params: key (required), direct (default true).
type VigenereEncryptOp struct {
	BaseOperation
}

func (op *VigenereEncryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	m, key, err := machineFor(params)
	if err != nil {
		return nil, err
	}
	out, err := m.Encrypt(string(input), key)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// VigenereDecryptOp deciphers text. Params: key (required), direct (default true).
type VigenereDecryptOp struct {
	BaseOperation
}

func (op *VigenereDecryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	m, key, err := machineFor(params)
	if err != nil {
		return nil, err
	}
	out, err := m.Decrypt(string(input), key)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// ReverseConfig undoes an encryption step. A reverse machine's output has to
// be put back in natural order before a direct decrypt, since reversal moves
// the letters away from the key positions they were shifted with.
func (op *VigenereEncryptOp) ReverseConfig(params map[string]interface{}) ([]OperationConfig, error) {
	return inverseSteps(op, params)
}

// ReverseConfig undoes a decryption step; see VigenereEncryptOp.ReverseConfig.
func (op *VigenereDecryptOp) ReverseConfig(params map[string]interface{}) ([]OperationConfig, error) {
	return inverseSteps(op, params)
}

func inverseSteps(op Operation, params map[string]interface{}) ([]OperationConfig, error) {
	inverse, ok := op.Reverse()
	if !ok {
		return nil, fmt.Errorf("operation %s has no inverse", op.Name())
	}
	direct, err := boolParam(params, "direct", true)
	if err != nil {
		return nil, err
	}
	if direct {
		return []OperationConfig{{Name: inverse.Name(), Parameters: params}}, nil
	}

	directParams := make(map[string]interface{}, len(params))
	for k, v := range params {
		directParams[k] = v
	}
	directParams["direct"] = true
	return []OperationConfig{
		{Name: "reverse"},
		{Name: inverse.Name(), Parameters: directParams},
	}, nil
}
