// SPDX-License-Identifier: MPL-2.0

// Package asset classifies release assets by file name and ranks them
// against the running machine.
//
// Classification is a set of ordered substring rules (see rules.go): the
// first rule whose token appears in the lower-cased file name wins, so rule
// order is part of the contract. Ranking (rank.go) is a pure comparison over
// a platform.Host captured once at startup.
package asset
