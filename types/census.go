package types

// CensusProof is the struct to represent a proof of inclusion in the census
// tree. It is provided by the voter to show that the key (its voter
// commitment) is eligible with the given weight under Root.
type CensusProof struct {
	Root     HexBytes `json:"root"`
	Key      HexBytes `json:"key"`
	Value    HexBytes `json:"value"`
	Siblings HexBytes `json:"siblings"`
	Weight   *BigInt  `json:"weight,omitempty"`
}

// CensusHolder is an asset holder included in a census snapshot.
type CensusHolder struct {
	Key     HexBytes `json:"key"`
	Balance uint64   `json:"balance"`
}
