// Package settlement converts per-player profit/loss into a deterministic
// list of peer-to-peer transfers that reconciles every net position. It is
// pure: no side effects, no input mutation, and it never fails — a degenerate
// game simply settles to an empty list.
package settlement

import (
	"github.com/homegame/platform/internal/domain"
	"github.com/google/uuid"
)

// Tolerance is the absolute balance (in cents) below which a player is
// treated as settled. One whole currency unit, a policy choice that stops the
// algorithm from chasing rounding noise.
const Tolerance int64 = 100

// account is one player's working balance during netting. Positive means the
// table owes them (creditor), negative means they owe the table (debtor).
type account struct {
	playerID uuid.UUID
	name     string
	balance  int64
}

// Compute produces the settlement transaction list for a finished game.
//
// Players never cashed out contribute zero to total cash-outs; their buy-ins
// surface as a house difference that is redistributed across the winners
// before netting, so the pairwise passes always operate on a (near) zero-sum
// set of balances.
func Compute(players []domain.Player) []domain.SettlementTransaction {
	var totalBuyIns, totalCashOuts int64
	for i := range players {
		totalBuyIns += players[i].TotalBuyIn
		if players[i].Status == domain.PlayerCashedOut {
			totalCashOuts += players[i].CurrentStack
		}
	}
	houseDifference := totalBuyIns - totalCashOuts

	accounts := make([]account, 0, len(players))
	for i := range players {
		var cashedOut int64
		if players[i].Status == domain.PlayerCashedOut {
			cashedOut = players[i].CurrentStack
		}
		balance := cashedOut - players[i].TotalBuyIn
		if abs(balance) <= Tolerance {
			continue
		}
		accounts = append(accounts, account{
			playerID: players[i].ID,
			name:     players[i].DisplayName,
			balance:  balance,
		})
	}

	if abs(houseDifference) > Tolerance {
		accounts = redistributeHouseDifference(accounts, houseDifference)
	}

	txns := []domain.SettlementTransaction{}
	accounts, txns = eliminateCycles(accounts, txns)
	txns = greedyPair(accounts, txns)
	return txns
}

// redistributeHouseDifference spreads the house imbalance proportionally
// across the winners: each winner's balance is reduced by its share of the
// money the house kept (or increased when the house paid out more than it
// took in). Balances that fall within tolerance afterwards are dropped.
func redistributeHouseDifference(accounts []account, houseDifference int64) []account {
	var totalWinnings int64
	for _, a := range accounts {
		if a.balance > Tolerance {
			totalWinnings += a.balance
		}
	}
	if totalWinnings == 0 {
		return accounts
	}

	out := accounts[:0]
	for _, a := range accounts {
		if a.balance > Tolerance {
			a.balance -= a.balance * houseDifference / totalWinnings
		}
		if abs(a.balance) <= Tolerance {
			continue
		}
		out = append(out, a)
	}
	return out
}

// eliminateCycles scans unordered triples looking for one creditor whose
// credit is covered by two debtors, and settles the triple with exactly two
// transfers. A greedy pass would also need two transfers for such a triple,
// so the pass never loses optimality; it exists to avoid leaving an
// un-nettable remainder. The scan restarts whenever the player set changes.
func eliminateCycles(accounts []account, txns []domain.SettlementTransaction) ([]account, []domain.SettlementTransaction) {
restart:
	for i := 0; i < len(accounts); i++ {
		for j := i + 1; j < len(accounts); j++ {
			for k := j + 1; k < len(accounts); k++ {
				triple := [3]int{i, j, k}
				creditor, debtor1, debtor2, ok := classifyTriple(accounts, triple)
				if !ok {
					continue
				}
				credit := accounts[creditor].balance
				debt1 := -accounts[debtor1].balance
				debt2 := -accounts[debtor2].balance
				if credit > debt1+debt2 {
					continue
				}

				first := min64(credit, debt1)
				if first > 0 {
					txns = append(txns, transfer(accounts[debtor1], accounts[creditor], first))
					accounts[debtor1].balance += first
				}
				if remainder := credit - first; remainder > 0 && remainder <= debt2 {
					txns = append(txns, transfer(accounts[debtor2], accounts[creditor], remainder))
					accounts[debtor2].balance += remainder
				}
				accounts[creditor].balance = 0

				accounts = dropSettled(accounts)
				goto restart
			}
		}
	}
	return accounts, txns
}

// classifyTriple returns the creditor and two debtor indices when the triple
// has exactly one net-positive and two net-negative members.
func classifyTriple(accounts []account, triple [3]int) (creditor, debtor1, debtor2 int, ok bool) {
	creditors := make([]int, 0, 3)
	debtors := make([]int, 0, 3)
	for _, idx := range triple {
		switch {
		case accounts[idx].balance > Tolerance:
			creditors = append(creditors, idx)
		case accounts[idx].balance < -Tolerance:
			debtors = append(debtors, idx)
		}
	}
	if len(creditors) != 1 || len(debtors) != 2 {
		return 0, 0, 0, false
	}
	return creditors[0], debtors[0], debtors[1], true
}

// greedyPair repeatedly nets the first remaining creditor against the first
// remaining debtor in insertion order. Insertion order — not amount order —
// is the selection rule: the guarantee is determinism, not optimality.
func greedyPair(accounts []account, txns []domain.SettlementTransaction) []domain.SettlementTransaction {
	for {
		creditor, debtor := -1, -1
		for i := range accounts {
			if creditor < 0 && accounts[i].balance > Tolerance {
				creditor = i
			}
			if debtor < 0 && accounts[i].balance < -Tolerance {
				debtor = i
			}
		}
		if creditor < 0 || debtor < 0 {
			return txns
		}

		amount := min64(accounts[creditor].balance, -accounts[debtor].balance)
		txns = append(txns, transfer(accounts[debtor], accounts[creditor], amount))
		accounts[creditor].balance -= amount
		accounts[debtor].balance += amount
		accounts = dropSettled(accounts)
	}
}

func transfer(from, to account, amount int64) domain.SettlementTransaction {
	return domain.SettlementTransaction{
		FromPlayerID: from.playerID,
		FromName:     from.name,
		ToPlayerID:   to.playerID,
		ToName:       to.name,
		Amount:       amount,
	}
}

func dropSettled(accounts []account) []account {
	out := accounts[:0]
	for _, a := range accounts {
		if abs(a.balance) > Tolerance {
			out = append(out, a)
		}
	}
	return out
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
