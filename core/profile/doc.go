// Package profile keeps named token configurations. Each profile is
// validated and bound to a jwt.Service when it is registered, so a bad
// configuration fails at startup rather than on the first request.
package profile
