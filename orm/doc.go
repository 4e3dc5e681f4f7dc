/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* Models are stored under the bucket prefix followed by the primary key.
* Easy queries for one and iteration over a key prefix.

All models are serialized with the custody binary codec.
*/
package orm
