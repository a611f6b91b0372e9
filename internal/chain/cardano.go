package chain

import (
	"fmt"

	"github.com/echovl/cardano-go"
	"github.com/echovl/cardano-go/blockfrost"
	"github.com/echovl/cardano-go/crypto"
	"github.com/shopspring/decimal"

	"github.com/ecodrop/ecodrop-api/internal/config"
)

// ttlSlots is how far past the current tip a transaction stays valid
const ttlSlots = 1200

// cardanoNode talks to the Cardano network through a Blockfrost-backed node
type cardanoNode struct {
	node        cardano.Node
	network     cardano.Network
	networkName string
	signingKey  crypto.PrvKey
	treasury    cardano.Address
}

// NewCardanoNode creates a live Node from chain configuration. The signing
// key and treasury address must belong to the same wallet.
func NewCardanoNode(cfg config.ChainConfig) (Node, error) {
	network, err := parseNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}

	key, err := crypto.NewPrvKey(cfg.WalletSigningKey)
	if err != nil {
		return nil, fmt.Errorf("invalid treasury signing key: %w", err)
	}

	treasury, err := cardano.NewAddress(cfg.TreasuryAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid treasury address: %w", err)
	}

	return &cardanoNode{
		node:        blockfrost.NewNode(network, cfg.BlockfrostProjectID),
		network:     network,
		networkName: cfg.Network,
		signingKey:  key,
		treasury:    treasury,
	}, nil
}

func parseNetwork(name string) (cardano.Network, error) {
	switch name {
	case "mainnet":
		return cardano.Mainnet, nil
	case "preprod":
		return cardano.Preprod, nil
	case "preview":
		return cardano.Preview, nil
	default:
		return cardano.Testnet, fmt.Errorf("unknown cardano network %q", name)
	}
}

// Balance returns the spendable ADA at an address
func (n *cardanoNode) Balance(address string) (decimal.Decimal, error) {
	addr, err := cardano.NewAddress(address)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid address %q: %w", address, err)
	}

	utxos, err := n.node.UTxOs(addr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch UTXOs: %w", err)
	}

	var lovelace uint64
	for _, utxo := range utxos {
		lovelace += uint64(utxo.Amount.Coin)
	}

	return FromLovelace(lovelace), nil
}

// Send builds, signs and submits one transaction paying every payout from the
// treasury wallet, returning change to the treasury address
func (n *cardanoNode) Send(payouts []Payout) (string, error) {
	if err := ValidatePayouts(payouts); err != nil {
		return "", err
	}

	protocolParams, err := n.node.ProtocolParams()
	if err != nil {
		return "", fmt.Errorf("failed to fetch protocol parameters: %w", err)
	}

	utxos, err := n.node.UTxOs(n.treasury)
	if err != nil {
		return "", fmt.Errorf("failed to fetch treasury UTXOs: %w", err)
	}
	if len(utxos) == 0 {
		return "", fmt.Errorf("treasury wallet has no spendable UTXOs")
	}

	tip, err := n.node.Tip()
	if err != nil {
		return "", fmt.Errorf("failed to fetch chain tip: %w", err)
	}

	builder := cardano.NewTxBuilder(protocolParams)
	for _, utxo := range utxos {
		builder.AddInputs(cardano.NewTxInput(utxo.TxHash, uint(utxo.Index), utxo.Amount))
	}

	for _, p := range payouts {
		addr, err := cardano.NewAddress(p.Address)
		if err != nil {
			return "", fmt.Errorf("invalid recipient address %q: %w", p.Address, err)
		}
		builder.AddOutputs(cardano.NewTxOutput(addr, cardano.NewValue(cardano.Coin(ToLovelace(p.AmountADA)))))
	}

	builder.SetTTL(tip.Slot + ttlSlots)
	builder.AddChangeIfNeeded(n.treasury)
	builder.Sign(n.signingKey)

	tx, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build transaction: %w", err)
	}

	hash, err := n.node.SubmitTx(tx)
	if err != nil {
		return "", fmt.Errorf("failed to submit transaction: %w", err)
	}

	return hash.String(), nil
}

// Network names the network the node operates on
func (n *cardanoNode) Network() string {
	return n.networkName
}
