package cmd

import (
	"fmt"
	"io"

	"github.com/hexcorn/hexcorn/go/models"
)

type Context struct {
	io.Writer
	C     models.Core
	Color bool

	status *models.StatusDiff
}

func NewContext(c models.Core, w io.Writer) *Context {
	return &Context{Writer: w, C: c, status: &models.StatusDiff{C: c}}
}

func (c *Context) Printf(format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(c, format, a...)
}

func (c *Context) excpName(excp int) string {
	if name := c.C.Arch().ExcpName; name != nil {
		return name(excp)
	}
	return fmt.Sprintf("%#x", excp)
}
