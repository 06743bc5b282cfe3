// Package team provides the static registry of the twelve NPB clubs.
//
// Team codes match the roster page names on npb.jp (rst_{code}.html) and are
// part of the external contract of the query tools, so they must not change.
package team
