package navigation

import "sync"

// Step is one navigation instruction for the client router
type Step struct {
	Action      string `json:"action"`
	Destination string `json:"destination"`
}

// Recorder collects navigation instructions so they can be sent to the client
type Recorder struct {
	mu    sync.Mutex
	steps []Step
}

// Replace records a history-replacing navigation
func (r *Recorder) Replace(destination string) {
	r.record("replace", destination)
}

// Push records a history-pushing navigation
func (r *Recorder) Push(destination string) {
	r.record("push", destination)
}

func (r *Recorder) record(action, destination string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, Step{Action: action, Destination: destination})
}

// Steps returns a copy of the recorded instructions
func (r *Recorder) Steps() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Step(nil), r.steps...)
}

// Redirect returns the destination of the last replace, if any
func (r *Recorder) Redirect() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.steps) - 1; i >= 0; i-- {
		if r.steps[i].Action == "replace" {
			return r.steps[i].Destination, true
		}
	}
	return "", false
}
