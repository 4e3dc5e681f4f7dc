/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension owns a single configuration object stored under the
"_c:<package name>" key. It is loaded from the genesis file and validated
before every write, so a stored configuration is always valid.
*/
package gconf
