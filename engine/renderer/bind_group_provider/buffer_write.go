package bind_group_provider

import "github.com/Carmen-Shannon/oxy-re/engine/gpu"

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Apply schedules the write on queue.
func (w BufferWrite) Apply(queue gpu.Queue) error {
	return w.Provider.Write(queue, w.Binding, w.Offset, w.Data)
}
