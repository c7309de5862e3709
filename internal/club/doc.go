// Package club holds the plain records exchanged with the club API. The
// gateway decodes into them, the store caches them and the derive helpers
// compute presentation values from them.
package club
