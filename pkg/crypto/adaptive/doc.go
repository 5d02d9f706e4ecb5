// Package adaptive seals small secrets with an AEAD cipher chosen for the
// host CPU.
//
// AES-256-GCM is used where the platform has hardware AES support and
// ChaCha20-Poly1305 elsewhere. Sealed strings carry the cipher name, so a
// value sealed on one host opens on any other holding the same key:
//
//	sealed, err := adaptive.SealString(key, "api-key", []byte("cli"))
//	plain, err := adaptive.OpenString(key, sealed, []byte("cli"))
package adaptive
