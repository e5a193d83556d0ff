package carve

// Observer receives scan narration and progress updates. OnProgress is
// invoked at least once per block and once per recovered artifact; OnLog
// carries human-readable messages. Implementations must not retain the
// strings beyond the call.
type Observer interface {
	OnProgress(found int, blocks int)
	OnLog(msg string)
}

// NopObserver satisfies Observer for headless use; the engine never assumes
// a console exists.
type NopObserver struct{}

func (NopObserver) OnProgress(found int, blocks int) {}
func (NopObserver) OnLog(msg string)                 {}
