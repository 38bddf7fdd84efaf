package types

// ChainID is ID of the network (1 - mainnet, 2 - testnet)
type ChainID byte

const (
	// ChainMainnet is mainnet chain ID of the network
	ChainMainnet ChainID = 0x01
	// ChainTestnet is testnet chain ID of the network
	ChainTestnet ChainID = 0x02
)

// CurrentChainID is current ChainID of the network
var CurrentChainID = ChainMainnet

func (c ChainID) String() string {
	switch c {
	case ChainMainnet:
		return "mainnet"
	case ChainTestnet:
		return "testnet"
	}
	return "unknown"
}

// ParseChainID maps a chain name from the command line to its ID.
func ParseChainID(name string) (ChainID, bool) {
	switch name {
	case "mainnet":
		return ChainMainnet, true
	case "testnet":
		return ChainTestnet, true
	}
	return 0, false
}
