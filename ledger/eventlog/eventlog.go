/*
Package eventlog persists every applied instruction to a SQLite database so
a protocol run can be audited or replayed. The log is append-only and purely
additive: the core handlers never read it.
*/
package eventlog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tokenlease-org/tokenlease-go/types"
	"github.com/tokenlease-org/tokenlease-go/types/hex"
	"github.com/tokenlease-org/tokenlease-go/util"
)

// Event is one applied instruction.
type Event struct {
	RunID     string
	Seq       int64
	Program   types.Address
	Op        byte
	Args      hex.Bytes
	Accounts  []types.Address
	AppliedAt time.Time
}

// Store handles SQLite database operations for the applied-instruction log.
type Store struct {
	db    *sql.DB
	runID string
	seq   int64
}

// Open creates (or opens) the log database at path and starts a new run.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	s := &Store{db: db, runID: uuid.NewString()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			run_id     TEXT    NOT NULL,
			seq        INTEGER NOT NULL,
			program    TEXT    NOT NULL,
			op         INTEGER NOT NULL,
			args       TEXT    NOT NULL,
			accounts   TEXT    NOT NULL,
			applied_at TEXT    NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`)
	if err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

// RunID identifies the current run of this store.
func (s *Store) RunID() string {
	return s.runID
}

// Append records an applied instruction under the current run.
func (s *Store) Append(ix *types.Instruction) error {
	op, err := ix.Op()
	if err != nil {
		return err
	}
	accounts := util.TransformSlice(ix.Accounts, func(a types.Address) string {
		text, _ := a.MarshalText()
		return string(text)
	})
	program, _ := ix.Program.MarshalText()
	args := hex.Encode(ix.Data[1:])
	s.seq++
	_, err = s.db.Exec(
		`INSERT INTO events (run_id, seq, program, op, args, accounts, applied_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.runID, s.seq, string(program), int(op),
		string(args), strings.Join(accounts, ","),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append event %d: %w", s.seq, err)
	}
	return nil
}

// Events returns the applied instructions of the given run in order.
func (s *Store) Events(runID string) ([]Event, error) {
	rows, err := s.db.Query(
		`SELECT run_id, seq, program, op, args, accounts, applied_at FROM events WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e        Event
			program  string
			op       int
			args     string
			accounts string
			applied  string
		)
		if err := rows.Scan(&e.RunID, &e.Seq, &program, &op, &args, &accounts, &applied); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := e.Program.UnmarshalText([]byte(program)); err != nil {
			return nil, fmt.Errorf("decode event program: %w", err)
		}
		e.Op = byte(op)
		if err := e.Args.UnmarshalText([]byte(args)); err != nil {
			return nil, fmt.Errorf("decode event args: %w", err)
		}
		if accounts != "" {
			for _, part := range strings.Split(accounts, ",") {
				var a types.Address
				if err := a.UnmarshalText([]byte(part)); err != nil {
					return nil, fmt.Errorf("decode event account: %w", err)
				}
				e.Accounts = append(e.Accounts, a)
			}
		}
		if e.AppliedAt, err = time.Parse(time.RFC3339Nano, applied); err != nil {
			return nil, fmt.Errorf("decode event timestamp: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
