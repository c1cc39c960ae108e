package hexagon

// SynchronizeFromTB sets PC to the start of the block about to run.
func (c *Core) SynchronizeFromTB(tb *TB) {
	c.setGPR(RegPC, tb.PC)
}

// RestoreStateToOpc applies the recovery data found for a host position.
func (c *Core) RestoreStateToOpc(tb *TB, data []uint32) {
	c.setGPR(RegPC, data[0])
}

// restoreState recovers precise state for the op at retaddr in the running block.
// It reports false if retaddr does not fall inside an instruction of that block.
func (c *Core) restoreState(retaddr int) bool {
	if c.curTB == nil || retaddr == NoRestore {
		return false
	}
	data, ok := c.curTB.SearchPC(retaddr)
	if !ok {
		return false
	}
	c.RestoreStateToOpc(c.curTB, data)
	return true
}
