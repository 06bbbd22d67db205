// Package core contains the canonical relay domain contracts, entities and
// error taxonomy. Adapter and transport packages depend on this package;
// core must not depend on platform-specific or transport-specific code.
package core
