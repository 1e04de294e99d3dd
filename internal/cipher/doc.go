// Package cipher exposes the Vigenère machine and a handful of text
// transforms as named operations that can be chained into pipelines and
// saved as recipes.
//
// # Quick Start
//
//	op, _ := cipher.GetOperation("vigenere_encrypt")
//	out, _ := op.Execute(ctx, []byte("attack at dawn!"), map[string]interface{}{
//	    "key": "alphonse",
//	})
//	// out: []byte("AEIHQX SX DLLU!")
//
// # Pipelines
//
//	pipeline := &cipher.Pipeline{
//	    Operations: []cipher.OperationConfig{
//	        {Name: "vigenere_encrypt", Parameters: map[string]interface{}{"key": "lemon"}},
//	        {Name: "reverse"},
//	    },
//	    Reversible: true,
//	}
//	encoded, _ := pipeline.Execute(ctx, []byte("meet me at noon"))
//	back, _ := pipeline.Reverse()
//	decoded, _ := back.Execute(ctx, encoded)
//	// decoded: []byte("MEET ME AT NOON")
//
// # Available Operations
//
//   - vigenere_encrypt/vigenere_decrypt - Vigenère cipher (params: key, direct)
//   - uppercase - Uppercase the input (not reversible)
//   - reverse - Reverse character order (its own inverse)
//   - repeat - Repeat the input with separators and an optional addition
//   - delete_digit - Largest number obtainable by deleting one digit
//
// # Thread Safety
//
// The registry is guarded by a RWMutex. Operations keep no state between
// calls. RecipeManager locks internally.
package cipher
