/*
Package utils contains decorators that are shared by every transaction
passing through the ledger: panic recovery, logging, metrics and
savepoints.
*/
package utils
