package command

import (
	"context"
	"log"
	"time"
)

// GatewayNotifier increments the monthly transaction counter through the
// account gateway as a detached task. The outcome is logged and discarded:
// counter drift only affects future fee-tier decisions, never the result of
// the operation that spawned it.
type GatewayNotifier struct {
	gateway AccountGateway
}

func NewGatewayNotifier(gateway AccountGateway) *GatewayNotifier {
	return &GatewayNotifier{gateway: gateway}
}

// IncrementCounter spawns the increment and returns immediately. The task
// carries its own deadline, detached from the request that triggered it.
func (n *GatewayNotifier) IncrementCounter(accountID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := n.gateway.IncrementTransactionCounter(ctx, accountID); err != nil {
			log.Printf("failed to increment transaction counter for account %s: %v", accountID, err)
			return
		}
		log.Printf("transaction counter incremented for account %s", accountID)
	}()
}
