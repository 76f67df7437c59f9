package familydb

import "fmt"

func (e *APIError) Error() string {
	return fmt.Sprintf("familydb error code: %s, description: %s", e.Code, e.Message)
}
