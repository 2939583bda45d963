package pipes

// Handle is what a stage body sees: the bound Context plus the stage itself.
type Handle struct {
	pc    *Context
	stage *Stage
}

func (h *Handle) Context() *Context {
	return h.pc
}

func (h *Handle) Stage() *Stage {
	return h.stage
}

func (h *Handle) Get(name string) (any, bool) {
	return h.pc.Get(name)
}

func (h *Handle) Has(name string) bool {
	return h.pc.Has(name)
}

func (h *Handle) Add(fields Fields) error {
	return h.pc.Add(fields)
}

func (h *Handle) AddMutable(fields Fields) error {
	return h.pc.AddMutable(fields)
}

func (h *Handle) Put(name string, value any) error {
	return h.pc.Put(name, value)
}

func (h *Handle) PutMutable(name string, value any) error {
	return h.pc.PutMutable(name, value)
}

func (h *Handle) Halt(errs ...any) {
	h.pc.Halt(errs...)
}

// Terminate halts the context; return its result from the body.
func (h *Handle) Terminate(errs ...any) error {
	return h.pc.Terminate(errs...)
}

func (h *Handle) AddErrors(label string, errs ...any) {
	h.pc.AddErrors(label, errs...)
}

func (h *Handle) Success() bool {
	return h.pc.Success()
}

func (h *Handle) Failure() bool {
	return h.pc.Failure()
}
