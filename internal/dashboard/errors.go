package dashboard

import "fmt"

// UnknownRunError is returned when a run key matches no loaded index entry.
type UnknownRunError struct {
	Key string
}

func (e *UnknownRunError) Error() string {
	return fmt.Sprintf("unknown run: %q", e.Key)
}
