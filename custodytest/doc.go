/*
Package custodytest provides mocks and helpers for testing custody
extensions without a running ledger.
*/
package custodytest
