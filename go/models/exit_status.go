package models

import "fmt"

// ExitStatus asks the front end to exit with a status code.
type ExitStatus int

func (e ExitStatus) Error() string {
	return fmt.Sprintf("exit %d", e)
}
