// Package scraper fetches and parses NPB roster and player profile pages from npb.jp.
//
// A team roster page holds one table per registration type. Rows are either
// position headers (pitchers, catchers, ...) or player rows; the scraper walks
// them in document order, carrying the most recent position header onto each
// player. Player IDs come from the profile link in the name cell, so rows
// without a link are not players and are dropped.
package scraper
