package hexagon

// register numbers, shared with the debugger numbering
const (
	RegSP = 29
	RegFP = 30
	RegLR = 31

	RegSA0     = 32
	RegLC0     = 33
	RegSA1     = 34
	RegLC1     = 35
	RegP3_0    = 36
	RegC5      = 37
	RegM0      = 38
	RegM1      = 39
	RegUSR     = 40
	RegPC      = 41
	RegUGP     = 42
	RegGP      = 43
	RegCS0     = 44
	RegCS1     = 45
	RegPktCnt  = 52
	RegInsnCnt = 53

	TotalRegs = 64
	NumPregs  = 4
)

var regNames = [TotalRegs]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
	"r16", "r17", "r18", "r19", "r20", "r21", "r22", "r23",
	"r24", "r25", "r26", "r27", "r28", "r29", "r30", "r31",
	"sa0", "lc0", "sa1", "lc1", "p3_0", "c5", "m0", "m1",
	"usr", "pc", "ugp", "gp", "cs0", "cs1", "c14", "c15",
	"c16", "c17", "c18", "c19", "pkt_cnt", "insn_cnt", "c22", "c23",
	"c24", "c25", "c26", "c27", "c28", "c29", "c30", "c31",
}

// RegName returns the architectural name of register n, or "" if out of range.
func RegName(n int) string {
	if n < 0 || n >= TotalRegs {
		return ""
	}
	return regNames[n]
}

// RegMap maps every register number to its name.
func RegMap() map[int]string {
	ret := make(map[int]string, TotalRegs)
	for i, name := range regNames {
		ret[i] = name
	}
	return ret
}

const stackWindow = 0x10000

// CoreState is the architectural state of one core plus its debug bookkeeping.
type CoreState struct {
	Pred       [NumPregs]uint8
	StackStart uint32
	FP         FloatStatus

	// debug view settings
	DebugCompat bool
	StackAdjust uint32

	lastDumpedPC uint32
	dumped       bool
}

// PackPreds concatenates the predicate registers, p0 in the low byte.
func PackPreds(pred [NumPregs]uint8) uint32 {
	var v uint32
	for i := NumPregs - 1; i >= 0; i-- {
		v = v<<8 | uint32(pred[i])
	}
	return v
}

func UnpackPreds(v uint32) [NumPregs]uint8 {
	var pred [NumPregs]uint8
	for i := range pred {
		pred[i] = uint8(v >> (8 * i))
	}
	return pred
}

func (s *CoreState) ReadP3_0() uint32 {
	return PackPreds(s.Pred)
}

func (s *CoreState) WriteP3_0(v uint32) {
	s.Pred = UnpackPreds(v)
}

// AdjustStackPtr rebases addresses near the stack start by the configured offset.
// It only affects debug output.
func (s *CoreState) AdjustStackPtr(addr uint32) uint32 {
	if s.StackAdjust == 0 {
		return addr
	}
	// 32-bit wraparound: a stack start below stackWindow leaves the window empty
	if s.StackStart+0x1000 >= addr && addr >= s.StackStart-stackWindow {
		return addr - s.StackAdjust
	}
	return addr
}
