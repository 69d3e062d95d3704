// Package cryptofolio reconstructs the daily positions of a crypto portfolio from a
// brokerage ledger and values them with daily close prices.
//
// The processing is a pipeline of stateless steps:
//   - Standardize converts the brokerage rows (buy, sell, trade, send, fiat movements)
//     into canonical buy and sell Transactions, one per crypto leg.
//   - Reconstruct replays the transactions with a first-in first-out policy and returns
//     one DailySnapshot of open Lots per day of a window.
//   - Valuate prices every lot of every snapshot, optionally against a benchmark symbol,
//     and returns a Table of Rows.
//
// Tracker chains the three steps. Problems that do not prevent a report (a sale without
// enough lots, a missing close) are collected as Diagnostics instead of failing the run.
//
// This package serves as the foundational logic for the `cfo` command-line tool.
package cryptofolio
