package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// demoNode fabricates balances and transaction hashes without touching a
// blockchain. It is only constructed when CHAIN_MODE=demo is set explicitly.
type demoNode struct {
	mu      sync.Mutex
	balance decimal.Decimal
	counter uint64
}

// NewDemoNode creates a Node that simulates the treasury wallet with the
// given starting balance
func NewDemoNode(balanceADA decimal.Decimal) Node {
	return &demoNode{balance: balanceADA}
}

// Balance returns the simulated treasury balance
func (n *demoNode) Balance(address string) (decimal.Decimal, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.balance, nil
}

// Send validates the payouts, debits the simulated balance and returns a
// synthetic transaction hash
func (n *demoNode) Send(payouts []Payout) (string, error) {
	if err := ValidatePayouts(payouts); err != nil {
		return "", err
	}

	total := decimal.Zero
	for _, p := range payouts {
		total = total.Add(p.AmountADA)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if total.GreaterThan(n.balance) {
		return "", fmt.Errorf("demo treasury balance %s ADA is below payout total %s ADA", n.balance, total)
	}

	n.balance = n.balance.Sub(total)
	n.counter++

	// A synthetic but plausibly-shaped 32-byte hash
	seed := fmt.Sprintf("demo-tx-%d-%d-%s", n.counter, time.Now().UnixNano(), total)
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:]), nil
}

// Network names the simulated network
func (n *demoNode) Network() string {
	return "demo"
}
