package domain

// CredentialName is the secret looked up before every completion call.
const CredentialName = "OPENAI_API_KEY"

// SecretStore is the port for any structured secret source. Get returns the
// empty string when the secret is absent; absence is recoverable, not fatal.
type SecretStore interface {
	Get(name string) string
}
