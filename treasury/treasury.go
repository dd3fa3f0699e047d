// Package treasury is a minimal fungible asset ledger: mints, holdings and
// checked transfers. Holdings live at addresses derived from their owner and
// asset. Debits are authorized by presenting the derivation seeds of the
// owner address, which is how proposals sign their own payouts.
package treasury

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/vocdoni/zk-governance/crypto"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	// Prefix is the keyspace of the ledger in the shared database.
	Prefix = []byte("t/")

	mintPrefix    = []byte("m/")
	holdingPrefix = []byte("h/")
	mintSeed      = []byte("mint")
)

var (
	ErrMintNotFound       = errors.New("mint not found")
	ErrHoldingNotFound    = errors.New("holding not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrDecimalsMismatch   = errors.New("decimals mismatch")
	ErrAssetMismatch      = errors.New("holding asset mismatch")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnauthorized       = errors.New("transfer not authorized")
	ErrInvalidTokenStd    = errors.New("invalid token standard")
	ErrMissingHoldingData = errors.New("missing holding owner or asset")
)

// Ledger stores mints and holdings under Prefix. Operations that take a
// write transaction do not commit it. Callers writing holdings that way must
// hold the ledger lock until their transaction commits.
type Ledger struct {
	db      db.Database
	program []byte
	mu      sync.Mutex
}

// New returns a ledger over database. Holding and mint addresses are derived
// for program.
func New(database db.Database, program []byte) *Ledger {
	return &Ledger{db: database, program: program}
}

// Lock acquires the ledger lock.
func (l *Ledger) Lock() { l.mu.Lock() }

// Unlock releases the ledger lock.
func (l *Ledger) Unlock() { l.mu.Unlock() }

// HoldingAddress returns the address of the holding of asset owned by owner.
func (l *Ledger) HoldingAddress(owner, asset []byte) types.HexBytes {
	return crypto.DeriveAddress(l.program, []byte(types.HoldingSeed), owner, asset)
}

// CreateMint registers a new asset.
func (l *Ledger) CreateMint(decimals uint8, standard types.TokenStandard) (*types.Mint, error) {
	if !standard.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenStd, standard)
	}
	id := uuid.New()
	m := &types.Mint{
		Address:  crypto.DeriveAddress(l.program, mintSeed, id[:]),
		Decimals: decimals,
		Standard: standard,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.update(func(wTx db.WriteTx) error {
		return set(wTx, mintPrefix, m.Address, m)
	}); err != nil {
		return nil, err
	}
	log.Debugw("mint created", "address", m.Address.String(), "decimals", decimals, "standard", string(standard))
	return m, nil
}

// Mint returns the mint at address.
func (l *Ledger) Mint(address []byte) (*types.Mint, error) {
	return mintFrom(l.db, address)
}

// Holding returns the holding at address.
func (l *Ledger) Holding(address []byte) (*types.Holding, error) {
	return holdingFrom(l.db, address)
}

// Balance returns the amount of asset held by owner, zero if the holding
// does not exist.
func (l *Ledger) Balance(owner, asset []byte) (uint64, error) {
	h, err := l.Holding(l.HoldingAddress(owner, asset))
	if errors.Is(err, ErrHoldingNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return h.Amount, nil
}

// Deposit issues new units of asset to the holding of owner, creating it if
// needed. It is the development faucet.
func (l *Ledger) Deposit(owner, asset []byte, amount uint64) (*types.Holding, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var holding *types.Holding
	err := l.update(func(wTx db.WriteTx) error {
		m, err := mintFrom(wTx, asset)
		if err != nil {
			return err
		}
		if m.Supply, err = types.CheckedAdd(m.Supply, amount); err != nil {
			return fmt.Errorf("mint supply: %w", err)
		}
		addr, err := l.OpenHolding(wTx, owner, asset)
		if err != nil {
			return err
		}
		holding, err = holdingFrom(wTx, addr)
		if err != nil {
			return err
		}
		if holding.Amount, err = types.CheckedAdd(holding.Amount, amount); err != nil {
			return fmt.Errorf("holding amount: %w", err)
		}
		if err := set(wTx, mintPrefix, m.Address, m); err != nil {
			return err
		}
		return set(wTx, holdingPrefix, holding.Address, holding)
	})
	if err != nil {
		return nil, err
	}
	return holding, nil
}

// OpenHolding creates the empty holding of asset for owner inside wTx if it
// does not exist yet, and returns its address.
func (l *Ledger) OpenHolding(wTx db.WriteTx, owner, asset []byte) (types.HexBytes, error) {
	if len(owner) == 0 || len(asset) == 0 {
		return nil, ErrMissingHoldingData
	}
	if _, err := mintFrom(wTx, asset); err != nil {
		return nil, err
	}
	addr := l.HoldingAddress(owner, asset)
	_, err := holdingFrom(wTx, addr)
	if err == nil {
		return addr, nil
	}
	if !errors.Is(err, ErrHoldingNotFound) {
		return nil, err
	}
	h := &types.Holding{Address: addr, Owner: owner, Asset: asset}
	if err := set(wTx, holdingPrefix, addr, h); err != nil {
		return nil, err
	}
	return addr, nil
}

// TransferChecked moves amount units of asset between two existing holdings
// inside wTx. The decimals must match the mint and the authority must prove
// ownership of the source holding.
func (l *Ledger) TransferChecked(wTx db.WriteTx, from, to []byte, authority *types.Authority,
	asset []byte, amount uint64, decimals uint8,
) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	m, err := mintFrom(wTx, asset)
	if err != nil {
		return err
	}
	if m.Decimals != decimals {
		return fmt.Errorf("%w: mint has %d, got %d", ErrDecimalsMismatch, m.Decimals, decimals)
	}
	src, err := holdingFrom(wTx, from)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := holdingFrom(wTx, to)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if !bytes.Equal(src.Asset, asset) || !bytes.Equal(dst.Asset, asset) {
		return ErrAssetMismatch
	}
	if err := l.authorize(src, authority); err != nil {
		return err
	}
	if src.Amount < amount {
		return fmt.Errorf("%w: holding %s has %d, needs %d", ErrInsufficientFunds, src.Address, src.Amount, amount)
	}
	if bytes.Equal(src.Address, dst.Address) {
		return nil
	}
	if dst.Amount, err = types.CheckedAdd(dst.Amount, amount); err != nil {
		return err
	}
	src.Amount -= amount
	if err := set(wTx, holdingPrefix, src.Address, src); err != nil {
		return err
	}
	return set(wTx, holdingPrefix, dst.Address, dst)
}

// authorize checks that the authority seeds derive the owner of h.
func (l *Ledger) authorize(h *types.Holding, authority *types.Authority) error {
	if authority == nil || len(authority.Seeds) == 0 {
		return fmt.Errorf("%w: missing signer", ErrUnauthorized)
	}
	if !bytes.Equal(authority.Address, h.Owner) {
		return fmt.Errorf("%w: signer is not the holding owner", ErrUnauthorized)
	}
	if !bytes.Equal(crypto.DeriveAddress(authority.Program, authority.Seeds...), h.Owner) {
		return fmt.Errorf("%w: seeds do not derive the owner", ErrUnauthorized)
	}
	return nil
}

func (l *Ledger) update(fn func(wTx db.WriteTx) error) error {
	wTx := l.db.WriteTx()
	defer wTx.Discard()
	if err := fn(wTx); err != nil {
		return err
	}
	return wTx.Commit()
}

func mintFrom(rd db.Reader, address []byte) (*types.Mint, error) {
	m := &types.Mint{}
	if err := get(rd, mintPrefix, address, m); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %x", ErrMintNotFound, address)
		}
		return nil, err
	}
	return m, nil
}

func holdingFrom(rd db.Reader, address []byte) (*types.Holding, error) {
	h := &types.Holding{}
	if err := get(rd, holdingPrefix, address, h); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %x", ErrHoldingNotFound, address)
		}
		return nil, err
	}
	return h, nil
}

func get(rd db.Reader, prefix, key []byte, out any) error {
	data, err := prefixeddb.NewPrefixedReader(rd, append(append([]byte{}, Prefix...), prefix...)).Get(key)
	if err != nil {
		return err
	}
	return cbor.Unmarshal(data, out)
}

func set(wTx db.WriteTx, prefix, key []byte, v any) error {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return err
	}
	data, err := em.Marshal(v)
	if err != nil {
		return err
	}
	return prefixeddb.NewPrefixedWriteTx(wTx, append(append([]byte{}, Prefix...), prefix...)).Set(key, data)
}
