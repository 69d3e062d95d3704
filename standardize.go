package cryptofolio

// Standardize turns the brokerage ledger into canonical Buy and Sell transactions.
//
// Fiat movements and rows in the reporting currency fiat are dropped, trades and sends
// become a Buy or a Sell depending on the sign of their amount and all quantities are made
// positive. The two legs of a trade share its fee: half the difference between their
// native amounts. A trade group with any other number of legs, or with legs in two
// currencies, is reported in the diagnostics and its legs keep an unknown fee.
//
// The output keeps the order of rows.
func Standardize(rows []RawTransaction, fiat string) ([]Transaction, Diagnostics) {
	// Only rows that move a position are considered, fees included.
	kept := make([]RawTransaction, 0, len(rows))
	for _, r := range rows {
		if r.Type.isPosition() {
			kept = append(kept, r)
		}
	}

	fees, diags := splitFees(kept)

	txs := make([]Transaction, 0, len(kept))
	for _, r := range kept {
		if r.Symbol == fiat {
			continue
		}
		var side Side
		switch r.Type {
		case RawBuy:
			side = Buy
		case RawSell:
			side = Sell
		default: // trade and send are signed.
			switch {
			case r.Amount.IsNegative():
				side = Sell
			case r.Amount.IsPositive():
				side = Buy
			default:
				continue // a zero leg moves nothing.
			}
		}

		tx := Transaction{
			Side:         side,
			On:           r.On,
			Symbol:       r.Symbol,
			Quantity:     r.Amount.Abs(),
			NativeAmount: r.NativeAmount.Abs(),
			TradeID:      r.TradeID,
		}
		switch {
		case !r.SpotPrice.IsZero():
			tx.CostPerUnit = r.SpotPrice.Abs()
		case !tx.Quantity.IsZero():
			tx.CostPerUnit = tx.NativeAmount.Div(tx.Quantity)
		default:
			tx.CostPerUnit = M(0, r.NativeAmount.cur)
		}
		if r.TradeID != "" {
			if fee, ok := fees[r.TradeID]; ok {
				tx.Fee = &fee
			}
		} else if !r.Fee.IsZero() {
			fee := r.Fee.Abs()
			tx.Fee = &fee
		}
		txs = append(txs, tx)
	}
	return txs, diags
}

// splitFees computes the fee of each two legged trade group.
func splitFees(rows []RawTransaction) (map[string]Money, Diagnostics) {
	var diags Diagnostics
	var order []string
	legs := make(map[string][]RawTransaction)
	for _, r := range rows {
		if r.TradeID == "" {
			continue
		}
		if _, seen := legs[r.TradeID]; !seen {
			order = append(order, r.TradeID)
		}
		legs[r.TradeID] = append(legs[r.TradeID], r)
	}

	fees := make(map[string]Money, len(legs))
	for _, id := range order {
		group := legs[id]
		if len(group) != 2 {
			diags = append(diags, &StandardizationError{TradeID: id, Legs: len(group)})
			continue
		}
		a, b := group[0].NativeAmount.Abs(), group[1].NativeAmount.Abs()
		if a.Currency() != "" && b.Currency() != "" && a.Currency() != b.Currency() {
			diags = append(diags, &StandardizationError{TradeID: id, Legs: 2, Currencies: []string{a.Currency(), b.Currency()}})
			continue
		}
		fees[id] = a.Sub(b).Abs().DivInt(2)
	}
	return fees, diags
}
