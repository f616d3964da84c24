package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MsgRequired is the shared message for missing required fields.
const MsgRequired = "this field is required"

// Errors maps field names to human-readable messages. Services return it
// instead of success so handlers can render a 422 with inline field errors.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// As unwraps err into Errors if it is one.
func As(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
