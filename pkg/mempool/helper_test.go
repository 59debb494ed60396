package mempool

import (
	"github.com/nhzcoin/nhz/pkg/chain"
	"github.com/nhzcoin/nhz/pkg/transaction"
)

func blockOf(tx *transaction.Transaction, timestamp uint32) chain.Block {
	return chain.Block{Timestamp: timestamp, Transactions: []*transaction.Transaction{tx}}
}

func blockOf2(a, b *transaction.Transaction) chain.Block {
	return chain.Block{Transactions: []*transaction.Transaction{a, b}}
}
