/*
Package errors implements custom error interfaces for custody.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. All the error kinds the
custody primitives report to a caller (already initialized, unauthorized,
premature condition, invalid proof, vote bookkeeping, insufficient funds)
are declared here so that a client can distinguish them by code.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf.

There is also support for stacktraces. Please ensure you create the custom error using
ErrXyz.New("...") or errors.Wrap(err, "...") at the point of creation to ensure we attach
a stacktrace. If you wrap multiple times, we only record the first wrap with the stacktrace.
(And don't do this as a global `var ErrFoo = errors.ErrInternal.New("foo")` or you will get a
useless stacktrace).

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context for the error
	%s is just the error message
	%+v is the full stack trace
*/
package errors
