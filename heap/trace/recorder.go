package trace

// Recorder is an always-enabled Port that captures every word in memory.
// Used by tests and by heapctl when replaying a workload.
type Recorder struct {
	words []uint32
}

// Enabled always reports true.
func (r *Recorder) Enabled() bool { return true }

// Write appends word to the capture.
func (r *Recorder) Write(word uint32) { r.words = append(r.words, word) }

// Words returns the captured stream.
func (r *Recorder) Words() []uint32 { return r.words }

var _ Port = (*Recorder)(nil)
