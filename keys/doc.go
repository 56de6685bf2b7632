// Package keys is a local-first store for attestor signing keys.
//
// Keys are secp256k1 private keys held one per file, hex-encoded in the
// go-ethereum keyfile format (SaveECDSA/LoadECDSA). The store is
// filesystem-backed and explicit: no keyring integration, no passphrase
// handling, private key files are 0600 under a 0700 directory.
package keys
