package auth

// SetCheckPassword replaces the password comparison until the returned func is called
func SetCheckPassword(f func(password, hash string) bool) (restore func()) {
	prev := checkPassword
	checkPassword = f
	return func() { checkPassword = prev }
}
