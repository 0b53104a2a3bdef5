package parking

import "fmt"

// Credentials are the login pair for the parking site. They are read from the
// environment once per run and never persisted.
type Credentials struct {
	Identity string
	Secret   string
}

func (c Credentials) Validate() error {
	if c.Identity == "" || c.Secret == "" {
		return fmt.Errorf("%w: site identity and secret are both required", ErrConfiguration)
	}
	return nil
}
