package kernel

// Context provides task-local access to kernel operations for one Step.
type Context struct {
	k      *Kernel
	taskID TaskID

	blocked     bool
	blockOnTick bool
	blockOn     Endpoint
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// Recv pops one message from the capability endpoint without blocking.
func (c *Context) Recv(epCap Capability) (Message, bool) {
	if c.k == nil || !epCap.Valid() || !epCap.canRecv() {
		return Message{}, false
	}
	return c.k.recv(epCap.ep)
}

// BlockOnRecv parks the task until a message is sent to the endpoint.
// It is a no-op when a message is already queued.
func (c *Context) BlockOnRecv(epCap Capability) {
	if c.k == nil || !epCap.Valid() || !epCap.canRecv() {
		return
	}
	if c.k.pending(epCap.ep) {
		return
	}
	c.blocked = true
	c.blockOnTick = false
	c.blockOn = epCap.ep
}

// BlockOnTick parks the task until the next kernel tick.
func (c *Context) BlockOnTick() {
	if c.k == nil {
		return
	}
	c.blocked = true
	c.blockOnTick = true
}

// SendTo sends a message to the capability endpoint.
func (c *Context) SendTo(toCap Capability, kind uint16, payload []byte) bool {
	return c.SendToCapResult(toCap, kind, payload, Capability{}) == SendOK
}

// SendToCapResult sends a message and transfers an optional capability.
//
// The message From field is set to 0 (unknown).
func (c *Context) SendToCapResult(toCap Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	if c.k == nil || !toCap.Valid() {
		return SendErrInvalidToCap
	}
	if !toCap.canSend() {
		return SendErrToNoSendRight
	}
	return c.k.send(0, toCap.ep, kind, payload, xfer)
}

// NowTick returns the current tick counter.
func (c *Context) NowTick() uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.tick
}
