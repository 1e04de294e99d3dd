package cipher

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mockOperation is a test implementation of Operation
type mockOperation struct {
	BaseOperation
}

func (m *mockOperation) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	return input, nil
}

func newMock(name string, typ OperationType) *mockOperation {
	return &mockOperation{BaseOperation: BaseOperation{NameValue: name, TypeValue: typ, DescriptionValue: name}}
}

// withEmptyRegistry clears the registry and restores the built-ins afterwards.
func withEmptyRegistry(t *testing.T) {
	t.Helper()
	ClearRegistry()
	t.Cleanup(ResetRegistry)
}

func TestBuiltinOperations(t *testing.T) {
	var names []string
	for _, op := range ListOperations() {
		names = append(names, op.Name())
	}
	want := []string{"delete_digit", "repeat", "reverse", "uppercase", "vigenere_decrypt", "vigenere_encrypt"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("unexpected builtins (-want +got):\n%s", diff)
	}
}

func TestRegisterOperation(t *testing.T) {
	withEmptyRegistry(t)

	op := newMock("mock", OperationTypeTransform)
	if err := RegisterOperation(op); err != nil {
		t.Fatalf("failed to register operation: %v", err)
	}
	if err := RegisterOperation(op); err == nil {
		t.Fatal("expected error when registering duplicate operation")
	}
	if err := RegisterOperation(nil); err == nil {
		t.Fatal("expected error when registering nil operation")
	}
	if err := RegisterOperation(newMock("", OperationTypeTransform)); err == nil {
		t.Fatal("expected error when registering unnamed operation")
	}
}

func TestGetAndUnregisterOperation(t *testing.T) {
	withEmptyRegistry(t)

	if err := RegisterOperation(newMock("test-op", OperationTypeTransform)); err != nil {
		t.Fatalf("register: %v", err)
	}

	retrieved, exists := GetOperation("test-op")
	if !exists {
		t.Fatal("operation should exist")
	}
	if retrieved.Name() != "test-op" {
		t.Errorf("expected name 'test-op', got '%s'", retrieved.Name())
	}

	UnregisterOperation("test-op")
	if _, exists := GetOperation("test-op"); exists {
		t.Fatal("operation should be gone after unregister")
	}
}

func TestListOperationsByType(t *testing.T) {
	withEmptyRegistry(t)

	for _, op := range []Operation{
		newMock("enc2", OperationTypeEncrypt),
		newMock("dec1", OperationTypeDecrypt),
		newMock("enc1", OperationTypeEncrypt),
	} {
		if err := RegisterOperation(op); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	encrypters := ListOperationsByType(OperationTypeEncrypt)
	if len(encrypters) != 2 {
		t.Fatalf("expected 2 encrypters, got %d", len(encrypters))
	}
	if encrypters[0].Name() != "enc1" || encrypters[1].Name() != "enc2" {
		t.Error("operations should be sorted by name")
	}
	if got := ListOperationsByType(OperationTypeDecrypt); len(got) != 1 {
		t.Errorf("expected 1 decrypter, got %d", len(got))
	}
}
