// Package portfolio computes analytics for a portfolio of listed securities.
//
// Everything is recomputed from freshly fetched daily closing prices on each
// analysis, nothing is persisted between runs.
//
// The core functionalities include:
//   - Price Fetching: retrieving daily closes for a set of tickers and a
//     benchmark index from a market data Provider, best effort, restricted to
//     common trading days.
//   - Portfolio Valuation: combining normalized price series with allocation
//     weights and an initial investment into a portfolio value series.
//   - Risk/Return Analysis: annualized return and volatility, Sharpe ratio,
//     beta and Treynor ratio against the benchmark.
//   - Signal Generation: MA50/MA200 trend and RSI(14) momentum signals per
//     ticker, the latest row being the actionable recommendation.
//
// This package serves as the foundational logic for the `pfa` command-line
// tool. Report export lives in the report package, market data providers in
// the eodhd, yahoo and alpaca packages.
package portfolio
