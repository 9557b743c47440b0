package ledger

import (
	"fmt"
	"slices"

	"github.com/tokenlease-org/tokenlease-go/cbor"
	"github.com/tokenlease-org/tokenlease-go/hash"
	"github.com/tokenlease-org/tokenlease-go/types"
	"github.com/tokenlease-org/tokenlease-go/types/hex"
)

const snapshotTag cbor.Tag = 1001

type (
	// Snapshot is a deterministic, order-normalized copy of the full ledger
	// state, encoded as tagged CBOR.
	Snapshot struct {
		_             struct{} `cbor:",toarray"`
		Timestamp     int64
		Balances      []balanceEntry
		Records       []recordEntry
		Mints         []mintEntry
		TokenAccounts []tokenAccountEntry
		Metadata      []*Metadata
		Editions      []*MasterEdition
		TokenRecords  []*TokenRecord
	}

	balanceEntry struct {
		_        struct{} `cbor:",toarray"`
		Address  types.Address
		Lamports uint64
	}

	recordEntry struct {
		_        struct{} `cbor:",toarray"`
		Address  types.Address
		Owner    types.Address
		Lamports uint64
		Data     hex.Bytes
	}

	mintEntry struct {
		_       struct{} `cbor:",toarray"`
		Address types.Address
		Mint    *Mint
	}

	tokenAccountEntry struct {
		_       struct{} `cbor:",toarray"`
		Address types.Address
		Account *TokenAccount
	}
)

// Snapshot serializes the whole ledger state. Map iteration order is
// normalized by sorting on address so the encoding is reproducible.
func (l *Ledger) Snapshot() ([]byte, error) {
	s := &Snapshot{Timestamp: l.timestamp}
	for addr, lamports := range l.balances {
		if lamports == 0 {
			continue
		}
		s.Balances = append(s.Balances, balanceEntry{Address: addr, Lamports: lamports})
	}
	for addr, rec := range l.records {
		s.Records = append(s.Records, recordEntry{Address: addr, Owner: rec.Owner, Lamports: rec.Lamports, Data: rec.Data})
	}
	for addr, m := range l.mints {
		s.Mints = append(s.Mints, mintEntry{Address: addr, Mint: m})
	}
	for addr, acc := range l.tokenAccounts {
		s.TokenAccounts = append(s.TokenAccounts, tokenAccountEntry{Address: addr, Account: acc})
	}
	for _, md := range l.metadata {
		s.Metadata = append(s.Metadata, md)
	}
	for _, ed := range l.editions {
		s.Editions = append(s.Editions, ed)
	}
	for _, tr := range l.tokenRecords {
		s.TokenRecords = append(s.TokenRecords, tr)
	}
	slices.SortFunc(s.Balances, func(a, b balanceEntry) int { return a.Address.Compare(b.Address) })
	slices.SortFunc(s.Records, func(a, b recordEntry) int { return a.Address.Compare(b.Address) })
	slices.SortFunc(s.Mints, func(a, b mintEntry) int { return a.Address.Compare(b.Address) })
	slices.SortFunc(s.TokenAccounts, func(a, b tokenAccountEntry) int { return a.Address.Compare(b.Address) })
	slices.SortFunc(s.Metadata, func(a, b *Metadata) int { return a.Mint.Compare(b.Mint) })
	slices.SortFunc(s.Editions, func(a, b *MasterEdition) int { return a.Mint.Compare(b.Mint) })
	slices.SortFunc(s.TokenRecords, func(a, b *TokenRecord) int { return a.TokenAccount.Compare(b.TokenAccount) })
	return cbor.MarshalTaggedValue(snapshotTag, s)
}

// Restore replaces the ledger state with the given snapshot.
func (l *Ledger) Restore(data []byte) error {
	s := &Snapshot{}
	if err := cbor.UnmarshalTaggedValue(snapshotTag, data, s); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	fresh := New()
	fresh.timestamp = s.Timestamp
	for _, e := range s.Balances {
		fresh.balances[e.Address] = e.Lamports
	}
	for _, e := range s.Records {
		fresh.records[e.Address] = &RecordAccount{Owner: e.Owner, Lamports: e.Lamports, Data: e.Data}
	}
	for _, e := range s.Mints {
		fresh.mints[e.Address] = e.Mint
	}
	for _, e := range s.TokenAccounts {
		fresh.tokenAccounts[e.Address] = e.Account
	}
	for _, md := range s.Metadata {
		fresh.metadata[md.Mint] = md
	}
	for _, ed := range s.Editions {
		fresh.editions[ed.Mint] = ed
	}
	for _, tr := range s.TokenRecords {
		fresh.tokenRecords[tr.TokenAccount] = tr
	}
	*l = *fresh
	return nil
}

// StateHash returns the digest of the normalized ledger state.
func (l *Ledger) StateHash() ([]byte, error) {
	data, err := l.Snapshot()
	if err != nil {
		return nil, err
	}
	return hash.Sum256(data), nil
}
