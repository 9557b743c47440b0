/*
Package txsystem hosts the protocol's transaction programs. Each subpackage
is one program: its persisted records, its operation opcodes with argument
structs, and an executor enforcing the handler preconditions against the
ledger. Runtime is the execution environment they share.
*/
package txsystem

import (
	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/ledger/eventlog"
	"github.com/tokenlease-org/tokenlease-go/types"
)

// Runtime is the execution environment of the protocol programs: the ledger,
// the deployment constants and an optional applied-instruction log.
type Runtime struct {
	Ledger *ledger.Ledger
	Config types.ProtocolConfig
	Log    *eventlog.Store
}

func NewRuntime(l *ledger.Ledger, cfg types.ProtocolConfig) *Runtime {
	return &Runtime{Ledger: l, Config: cfg}
}

// Now returns the ledger clock in unix seconds.
func (rt *Runtime) Now() int64 {
	return rt.Ledger.Timestamp()
}

// LogApplied appends a successfully executed instruction to the event log,
// when one is attached.
func (rt *Runtime) LogApplied(ix *types.Instruction) error {
	if rt.Log == nil {
		return nil
	}
	return rt.Log.Append(ix)
}
