// Package vigenere implements the Vigenère polyalphabetic substitution cipher
// over the 26-letter Latin alphabet.
//
// A Machine is either direct or reverse. Both encipher the same way; a reverse
// machine additionally reverses the character order of its output:
//
//	direct := vigenere.NewDirect()
//	out, _ := direct.Encrypt("attack at dawn!", "alphonse")
//	// out: "AEIHQX SX DLLU!"
//
//	reverse := vigenere.NewReverse()
//	out, _ = reverse.Encrypt("attack at dawn!", "alphonse")
//	// out: "!ULLD XS XQHIEA"
//
// Input is uppercased before processing. Characters outside A-Z are copied
// through unchanged and do not consume key characters.
package vigenere
