package core

// PasswordHasher abstracts password hashing so the domain never depends on a
// specific algorithm implementation.
type PasswordHasher interface {
	// Hash derives a storable hash from a plaintext password
	Hash(password string) (string, error)
	// Compare reports whether the plaintext matches the stored hash
	Compare(hash, password string) bool
}
