package domain

// Hasher is the port for any digest strategy. Used to fingerprint credentials
// for log lines without ever writing the credential itself.
type Hasher interface {
	Hash(data []byte) string
}
