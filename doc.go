// Package perfolio computes investment portfolio performance from three
// plain inputs: a ledger of activities (buys, sells, dividends, interest,
// fees), historical instrument prices, and currency exchange rates. Every
// result is derived fresh on each call; nothing is persisted or cached.
//
// The core functionalities include:
//   - Activity Ledger: a validated, chronologically ordered record of the
//     investor's activities, replayed to derive position state.
//   - Market Data Index: forward-carrying price and rate lookups over
//     already-fetched collections, with currency conversion.
//   - Symbol Metrics Engine: the day-by-day simulation of one instrument,
//     producing position states, cost basis, and performance summaries.
//   - Return Strategies: time-weighted (chained sub-period returns) and
//     money-weighted (internal rate of return) figures over any window.
//   - Portfolio Aggregation: concurrent fan-out over instruments, folded
//     into portfolio totals and a dated performance series.
//
// All monetary arithmetic runs on decimals; binary floating point appears
// only at the display boundary, in percentage figures. This package serves
// as the foundational logic for the `pfc` command-line tool.
package perfolio
