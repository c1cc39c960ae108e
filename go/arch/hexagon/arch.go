package hexagon

import (
	"github.com/hexcorn/hexcorn/go/cpu/hexagon"
	"github.com/hexcorn/hexcorn/go/models"
)

var Arch = &models.Arch{
	Name: "hexagon",
	Bits: 32,

	PC:   hexagon.RegPC,
	SP:   hexagon.RegSP,
	Regs: hexagon.RegMap(),
	DefaultRegs: []string{
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
		"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
		"r16", "r17", "r18", "r19", "r20", "r21", "r22", "r23",
		"r24", "r25", "r26", "r27", "r28", "r29", "r30", "r31",
		"p3_0", "pc",
	},

	GdbXml:                  hexagon.TargetXML(),
	GdbNumCoreRegs:          hexagon.TotalRegs,
	GdbStopBeforeWatchpoint: true,

	ExcpName: hexagon.ExcpName,

	Root:        hexagon.HexagonCore,
	ClassByName: hexagon.ClassByName,
}

func init() {
	Arch.New = func(t *models.CoreType, config *models.Config) (models.Core, error) {
		return (&hexagon.Builder{Arch: Arch}).New(t, config)
	}
}
