package config

// ConfigInitError marks a configuration that exists but does not name a
// usable vault yet, which is the normal state right after installation.
// The entry point treats it as "fall back to a vaultless session" rather
// than a hard failure.
type ConfigInitError struct {
	msg string
}

func (e *ConfigInitError) Error() string {
	return e.msg
}
