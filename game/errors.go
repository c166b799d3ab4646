package game

// ConfigurationError is returned when a round cannot start because the roster or
// settings are unusable. It is meant to be shown to the player verbatim.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}
