package types

// TokenStandard names the token program a mint belongs to.
type TokenStandard string

const (
	// TokenStandardLegacy is the original fungible token standard.
	TokenStandardLegacy TokenStandard = "legacy"
	// TokenStandardExtended is the extensions-enabled token standard.
	TokenStandardExtended TokenStandard = "extended"
)

// Valid reports whether s is a known standard.
func (s TokenStandard) Valid() bool {
	return s == TokenStandardLegacy || s == TokenStandardExtended
}

// Mint describes a fungible asset.
type Mint struct {
	Address  HexBytes      `json:"address"  cbor:"0,keyasint"`
	Decimals uint8         `json:"decimals" cbor:"1,keyasint"`
	Standard TokenStandard `json:"standard" cbor:"2,keyasint"`
	Supply   uint64        `json:"supply"   cbor:"3,keyasint"`
}

// Holding is the balance of one asset owned by one address.
type Holding struct {
	Address HexBytes `json:"address" cbor:"0,keyasint"`
	Owner   HexBytes `json:"owner"   cbor:"1,keyasint"`
	Asset   HexBytes `json:"asset"   cbor:"2,keyasint"`
	Amount  uint64   `json:"amount"  cbor:"3,keyasint"`
}

// Authority authorizes a debit on a holding. Derived owners sign by
// presenting the seeds their address was derived from. Seeds are never
// serialized.
type Authority struct {
	Address HexBytes `json:"address"`
	Program HexBytes `json:"-"`
	Seeds   [][]byte `json:"-"`
}
