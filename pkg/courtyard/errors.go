package courtyard

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("courtyard: invalid configuration")

// ConfigurationError reports an invalid courtyard policy value.
type ConfigurationError struct {
	Key    string
	Value  float64
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Key != "" && e.Err != nil:
		return fmt.Sprintf("courtyard config %s: %s: %v", e.Key, e.Reason, e.Err)
	case e.Key != "":
		return fmt.Sprintf("courtyard config %s = %g: %s", e.Key, e.Value, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("courtyard config: %s: %v", e.Reason, e.Err)
	}
	return "courtyard config: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
