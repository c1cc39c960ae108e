package hexagon

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hexcorn/hexcorn/go/models"
)

const typeSuffix = "-hexagon-cpu"

// HexagonCore is the abstract base of every Hexagon core type.
var HexagonCore = &models.CoreType{
	Name:     "hexagon-cpu",
	Parent:   models.RootCore,
	Abstract: true,
	Init:     hexagonInit,
	Realize:  hexagonRealize,
	Reset:    hexagonReset,
}

var V67Core = &models.CoreType{
	Name:   "v67" + typeSuffix,
	Parent: HexagonCore,
}

func init() {
	models.RegisterTypes(HexagonCore, V67Core)
}

// ClassByName resolves a model string such as "v67" or "v67,extra" to a concrete core type.
// Only the first comma-separated token is significant.
func ClassByName(model string) (*models.CoreType, error) {
	name := strings.SplitN(model, ",", 2)[0]
	t, ok := models.LookupType(name + typeSuffix)
	if !ok || !models.IsSubtype(t, HexagonCore) || t.Abstract {
		return nil, errors.Wrapf(models.ErrCoreNotFound, "%q", model)
	}
	return t, nil
}
