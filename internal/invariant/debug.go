//go:build ringdebug

package invariant

const debug = true
