/*
Package x contains the helpers shared by all custody extensions. The
extensions themselves live in subpackages.

The most important piece is the Authenticator, that reveals who signed the
current transaction. Handlers never look into signatures themselves.
*/
package x
