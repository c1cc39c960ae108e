package arch

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hexcorn/hexcorn/go/arch/hexagon"
	"github.com/hexcorn/hexcorn/go/models"
)

var archMap = map[string]*models.Arch{
	"hexagon": hexagon.Arch,
}

func GetArch(name string) (*models.Arch, error) {
	a, ok := archMap[name]
	if !ok {
		return nil, errors.Errorf("Arch '%s' not found.", name)
	}
	return a, nil
}

// NewCore selects a core type by model name and builds it.
func NewCore(a *models.Arch, model string, config *models.Config) (models.Core, error) {
	t, err := a.ClassByName(model)
	if err != nil {
		return nil, err
	}
	return a.New(t, config)
}

// Models lists the selectable model names of an arch, e.g. "v67".
func Models(a *models.Arch) []string {
	var ret []string
	for _, name := range models.ConcreteTypes(a.Root) {
		ret = append(ret, strings.TrimSuffix(name, "-"+a.Root.Name))
	}
	return ret
}
