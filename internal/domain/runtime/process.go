package runtime

import "time"

// Actor identifies who performed an action in the system.
type Actor struct {
	// Hostname is the machine name where the action was performed.
	Hostname string `json:"hostname"`
	// Username is the system user who triggered the action.
	Username string `json:"username"`
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// ServerProcess records the detached model server launched by the bootstrap.
// It is the handle the original setup script never kept: enough identity to
// later verify the process is still ours and to stop it cleanly.
type ServerProcess struct {
	// PID is the operating system process identifier.
	PID int `json:"pid"`
	// Executable is the binary name the PID must still resolve to.
	Executable string `json:"executable"`
	// LogFile is where the combined server output is appended.
	LogFile string `json:"log_file"`
	// StartedAt is when the server was launched.
	StartedAt time.Time `json:"started_at"`
	// StartedBy is the user who launched the server.
	StartedBy *Actor `json:"started_by,omitempty"`
}

// Clone returns a copy of the record to avoid leaking internal references.
func (p *ServerProcess) Clone() *ServerProcess {
	if p == nil {
		return nil
	}

	cloned := *p
	cloned.StartedBy = p.StartedBy.Clone()

	return &cloned
}
